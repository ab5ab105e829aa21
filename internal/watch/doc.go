// Package watch re-runs a breadcrumb dispatch whenever the site file
// changes. It debounces rapid editor writes and reports how the rendered
// trail changed since the previous run.
package watch
