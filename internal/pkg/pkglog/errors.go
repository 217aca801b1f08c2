package pkglog

import "errors"

// Sentinel errors. Functions in this package return them wrapped in a
// *pkgerror.Error, so both errors.Is and pkgerror.TypeOf work on the result.
var (
	// ErrAlreadyInitialized is returned by Init after the first successful call.
	ErrAlreadyInitialized = errors.New("logging already initialized")

	// ErrUnknownFramework is returned when a framework name is not registered.
	ErrUnknownFramework = errors.New("framework is not registered")

	// ErrNotInitialized is returned when request instrumentation or a
	// correlation id lookup happens before Init selected a framework.
	ErrNotInitialized = errors.New("logging is not initialized with a framework")

	// ErrInvalidFormatter is returned when a nil custom formatter is given.
	ErrInvalidFormatter = errors.New("custom formatter is nil")

	// ErrInvalidBinding is returned when a framework binding is incomplete.
	ErrInvalidBinding = errors.New("invalid framework binding")

	// ErrInvalidApp is returned by an Instrumentor given an app it cannot instrument.
	ErrInvalidApp = errors.New("app cannot be instrumented by this framework")

	// ErrNoAmbientRequest is returned when a correlation id is requested without
	// a request and the framework cannot look the current request up.
	ErrNoAmbientRequest = errors.New("framework does not support ambient request lookup")

	// ErrRequestType is returned when a request does not have the type the
	// active request adapter handles.
	ErrRequestType = errors.New("request type does not match the request adapter")

	// ErrAlreadyFinalized is returned by RequestInfo.Finalize after the first call.
	ErrAlreadyFinalized = errors.New("request info already finalized")

	// ErrNotFinalized is returned when an access record is formatted from a
	// RequestInfo that was never finalized.
	ErrNotFinalized = errors.New("request info not finalized")
)
