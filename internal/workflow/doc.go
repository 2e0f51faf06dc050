// Package workflow wires catalog nodes into graphs and runs them.
//
// A Graph is a list of declared inputs and named steps. Each step holds a
// configured node plus links that feed node fields from workflow inputs or
// from earlier steps' results. References take the forms
//
//	input.<name>
//	node.<step>
//	node.<step>.<field>
//
// Graphs are usually written in HCL (see ParseHCL) or built in Go with the
// dsl package. Runner executes the steps sequentially in dependency order.
// Values cross step boundaries as JSON, the same encoding nodes accept as
// arguments, so a step's result can feed any field whose type decodes it.
package workflow
