// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors, names each
// task for the logs, and logs panics so that background work does not crash
// the process silently.
package pkgroutine
