// Package ui implements the terminal interface for veil using Bubble Tea.
//
// The model is deliberately small: one screen showing the selected
// document, a prompt input with a live analysis preview, and a job panel
// with progress. The UI never talks to the Cloak API on its own thread of
// control — it reads store snapshots on a tick and issues work as Bubble
// Tea commands, so a slow network call can never freeze rendering.
package ui
