// Package compose turns one host's GPU assignments into a docker-compose
// manifest. It is structured into small files by concern:
//
//   - selector.go: ParseSelector, the cuda:INT[-INT] grammar.
//   - images.go: ImageCatalog and Resolve.
//   - ports.go: PortAllocator, sequential host ports per manifest.
//   - service.go: Options, ServiceName and BuildService (one model on one GPU).
//   - assembler.go: cluster input types and Assemble, which drives the above.
//   - manifest.go: the Manifest document and its ordered YAML codec.
//   - errors.go: error types and helpers (IsInvalidSelector, IsImageNotFound, ...).
//
// Everything here is pure: no file I/O, no logging, no shared state. Writing
// manifests and reporting diagnostics belong to package generator.
package compose
