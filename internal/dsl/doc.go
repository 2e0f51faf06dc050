// Package dsl builds workflows in Go with typed node values.
//
//	b := dsl.New(nil)
//	photo := b.Input("photo", "Image to tile")
//	slice := dsl.Add(b, "slice", func(n *node.SliceImageGrid) {
//		n.Columns, n.Rows = 2, 2
//	}).Link("image", photo)
//	dsl.Add(b, "combine", func(n *node.CombineImageGrid) {
//		n.Columns = 2
//	}).Link("tiles", slice.Output())
//	g, err := b.Build()
//
// Literal values are set on the node in the configure function; values from
// inputs and other steps are wired with Link and LinkList.
package dsl
