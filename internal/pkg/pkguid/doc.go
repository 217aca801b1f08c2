// Package pkguid provides helpers for generating unique identifiers.
//
// The codebase uses these interfaces to avoid hard-coding a specific UID
// strategy. Depending on the use case you can generate:
//   - String IDs (for example time-ordered UUIDv7, the default correlation id).
//   - Numeric IDs (for example Snowflake-style IDs), also available as
//     decimal strings through SnowflakeString.
//
// All generators are safe for concurrent use.
package pkguid
