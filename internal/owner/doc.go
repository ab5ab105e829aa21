// Package owner provides breadcrumb owners: a hierarchical [Module], a
// key/value [Map] for owners assembled at runtime, and [Struct], which
// exposes the exported fields and methods of any Go value.
//
// All three satisfy breadcrumb.PropertyOwner and breadcrumb.MethodOwner.
package owner
