// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// It helps keep error handling consistent by:
//   - Providing sentinel errors that can be checked with errors.Is.
//   - Providing a structured Error type that carries a message, type, and code,
//     which can be mapped to HTTP status codes at the edge (handlers).
//   - Classifying setup failures (configuration), API misuse (usage), and
//     broken lifecycle rules (invariant) so callers can react per class with
//     TypeOf while still matching the wrapped sentinel with errors.Is.
package pkgerror
