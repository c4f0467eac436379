// Package connectors wires the provider adapters into a dispatch table.
//
// Each subpackage talks to one provider (or one family, for Google) and
// exposes:
//
//   - New: a driven.AdapterBuilder that builds a per-request adapter from a
//     credential bundle
//   - Field* constants naming the keys of the raw results it produces
//   - ResolveWebURL: rebuilds a browser link from those raw fields
//
// Providers without a Go SDK share the JSON client in package rest.
package connectors
