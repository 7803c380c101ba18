// Package state provides thread-safe state management for the veil client.
//
// # Overview
//
// The Store is the single meeting point between the background workers and
// the UI: the job poller publishes job snapshots, the prompt analyzer
// publishes analysis results, and the UI reads an immutable copy of the
// whole thing at its own refresh rate. Writers never block readers for
// longer than a copy.
//
// Each portion of the snapshot has exactly one writer: the poller owns the
// job snapshot, the analyzer owns the analysis, the app owns suggestions
// and health. There is no other shared mutable state between components.
package state
