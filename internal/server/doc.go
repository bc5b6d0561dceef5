// Package server exposes a cache store over HTTP.
//
// # Routes
//
//	GET    /               greeting
//	GET    /themes         names and states of all entries
//	GET    /theme/{name}   one theme as JSON
//	POST   /theme          insert (also POST /new_theme)
//	PUT    /theme/{name}   replace or rename
//	DELETE /theme/{name}   remove from memory and disk
//	GET    /healthz        503 once the store is poisoned
//	GET    /res/...        static resources, when a directory is configured
//
// Request bodies are JSON unless Content-Type is application/toml.
// Cache errors map to status codes in writeError; contention is reported
// as 503 with Retry-After so clients can retry.
package server
