// Package output renders breadcrumb trails and writes them to their
// destination.
//
// The package is organized around four concerns:
//
//   - Rendering (render.go): text, table, JSON and YAML renderings of a
//     trail. JSON and YAML keep the trail's key order.
//
//   - Registry (registry.go): format names mapped to [Renderer] functions so
//     commands can look formats up by flag value.
//
//   - Writers (writer.go): output destinations via the [Writer] interface,
//     with [StreamWriter] and [FileWriter] implementations.
//
//   - Diffing (diff.go): unified diff of two rendered trails.
package output
