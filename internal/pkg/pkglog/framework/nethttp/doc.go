// Package nethttp plugs net/http into pkglog.
//
// Importing the package registers the "nethttp" framework. Its instrumentor
// wraps the Handler of an *http.Server; the adapters and Middleware are also
// reused by the httprouter and chi frameworks, which serve *http.Request too.
package nethttp
