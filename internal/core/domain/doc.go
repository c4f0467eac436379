// Package domain holds the types every layer of the search pipeline shares.
//
// A hit moves through three shapes: RawResult as a provider adapter returns
// it, NormalizedResult after projection into common fields, and RankedResult
// once it has a score and position. ProviderID is the closed set of
// searchable services, CredentialBundle the secrets one user holds for one
// of them, and IntegrationHealth the rolling reliability record the
// orchestrator keeps per provider. SearchRequest and SearchResponse are the
// request boundary.
//
// The package imports only the standard library.
package domain
