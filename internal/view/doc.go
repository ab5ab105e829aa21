// Package view holds the per-request view parameter bag that filters write
// into before an action runs.
//
// Both [Params] and [Trail] keep insertion order. A [Trail] mirrors the
// semantics of a PHP array used as a breadcrumb list: values can be set under
// an explicit key, overwriting in place, or appended under the next free
// integer key.
package view
