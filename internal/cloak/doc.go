// Package cloak implements the HTTP client for the Cloak redaction API.
//
// # Overview
//
// The Cloak daemon exposes a small REST surface for uploading documents,
// starting redaction jobs, polling job progress, analyzing natural-language
// redaction prompts, and downloading finished artifacts. This package wraps
// that surface in a typed client.
//
// # Error Normalization
//
// Every failing operation returns an *APIError carrying a human-readable
// message and a numeric status code. When the server answered with a non-2xx
// response the message is taken from the response's "detail" field and the
// status from the HTTP status code. When no response was received at all
// (timeout, refused connection, cancelled context) the status defaults to
// 500 and the message to a generic transport failure. The underlying cause
// is retained and reachable through errors.Unwrap, but it is never the
// primary message.
//
// Callers therefore handle exactly one error shape regardless of whether a
// request died on the wire or was rejected by the service.
//
// # Usage
//
//	client, err := cloak.New(cloak.Config{BaseURL: "127.0.0.1:8000"})
//	if err != nil { ... }
//	res, err := client.SubmitJob(ctx, file, cloak.SubmitOptions{Prompt: "Redact SSN only"})
//
// The client is an explicit instance constructed from configuration; there
// is intentionally no package-level default client.
package cloak
