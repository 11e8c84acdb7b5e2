// Package internal contains the core implementation packages for tagtree.
//
// These packages follow Go's internal package convention, so they cannot
// be imported by other modules. The cmd package is their only consumer.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - tag: the tree model. Elements, text and fragments with ordered
//     attributes, bare arguments, depth, queries and rendering
//   - document: YAML/JSON tree documents, parsed with line and column
//     aware errors and encoded back out
//   - importer: HTML (and templ component output) converted into trees
//   - output: pretty or minified rendering and atomic file writes
//   - preview: HTTP preview server with WebSocket live reload
//   - watcher: file system monitoring with debouncing
//   - config: Viper-based configuration with validation
//   - errors: typed errors, error collection and formatting
//   - logging: structured logging on top of log/slog
//   - version: build information
//   - testutils: fixtures shared by the tests
//
// # Data Flow
//
//   - document or importer produce a *tag.Tag
//   - cmd broadcasts the configured args over the tree
//   - output or preview render it
//   - watcher triggers the whole chain again when the source changes
//
// # Error Handling
//
// Lookups on a tree return typed errors from the errors package, so a
// missing attribute or child can be told apart from I/O and document
// problems with errors.IsMissingAttribute and errors.IsMissingChild.
// Document errors carry the file, line and column of the offending node.
//
// # Concurrency
//
// A tree is not safe for concurrent mutation. The preview server hands
// out a rendered snapshot under a lock, and the watcher serializes
// change handlers, so a tree is only ever built and mutated by one
// goroutine at a time.
package internal
