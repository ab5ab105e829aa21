// Package filter runs before-action filters for a dispatched request.
//
// The package is built around the [ActionFilter] interface and the [Chain]
// type, which applies filters in order and stops at the first error, the way
// a web framework runs the behaviors attached to the application, each
// module and the controller before an action.
package filter
