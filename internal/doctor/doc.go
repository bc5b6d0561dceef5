// Package doctor provides diagnostic and repair functionality for a
// themestore data directory.
//
// The doctor package detects and optionally repairs issues including:
//
//   - Decode issues: files that are not valid themes. These are only
//     reported; the server reports them as not found on read.
//
//   - Name issues: a file whose stem is not the key of the name inside
//     it, so the store would serve it under the wrong key.
//
//   - Stray files: *.tmp files left by a write that was interrupted
//     before its rename.
//
// # Usage
//
//	stats, err := doctor.Run(ctx, dir, false)  // check only
//	stats, err := doctor.Run(ctx, dir, true)   // check and fix
//
// Run works on the files directly and must not race a server; callers
// take the directory lock first.
package doctor
