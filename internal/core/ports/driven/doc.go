// Package driven declares what the search services need from the outside
// world.
//
// CredentialStore, AdapterBuilder, ProjectionRegistry and ConfigStore must
// be supplied. AIService, LLMService, SearchHistoryStore and PromptStore may
// be nil: without AI the raw query is searched and results are ordered by
// recency, without history no context is sent to the model and analytics
// events are dropped, and without a prompt store the built-in prompts apply.
//
// Nothing here imports anything but domain.
package driven
