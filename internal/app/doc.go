// Package app provides the orchestration layer for the veil application.
//
// # Overview
//
// This package is the composition root: it loads configuration, validates
// the selected document, constructs the Cloak HTTP client, and wires the
// job poller, prompt analyzer, artifact retriever, and state store into the
// UI. Business logic lives in the domain packages; app only connects them.
//
// # Startup Sequence
//
//  1. Load veil configuration from ~/.config/veil/config.toml plus
//     environment overrides
//  2. Read and validate the document (size and type are rejected locally,
//     before any network call)
//  3. Build the Cloak client from the configured base URL and timeout
//  4. Verify the daemon is reachable (3 second timeout, fatal on failure)
//  5. Start the poller and analyzer bound to the process context
//  6. Run the TUI and block until the user exits or the context cancels
//
// # Error Handling
//
// Fatal errors (returned from Run): bad configuration, an invalid or
// unreadable document, client construction failure, and the initial
// availability check. Everything after startup is recoverable and surfaces
// through the state store instead of aborting the program.
package app
