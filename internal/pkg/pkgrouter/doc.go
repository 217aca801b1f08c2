// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, error mapping and panic recovery. Request logging is
// installed from outside through Wrap, see the pkglog httprouter framework.
package pkgrouter
