// Package memory provides in-memory implementations of the driven store
// ports. They back single-process runs and tests; nothing survives a restart.
package memory
