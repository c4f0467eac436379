// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The search pipeline runs left to right: CredentialResolver,
// AdapterFactory, QueryProcessor, Orchestrator, ResultTransformer,
// ResponseBuilder. SearchService strings them together and Engine wires
// them from settings.
package services
