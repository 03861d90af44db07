// Package frontend reads .lumen.toml fixture documents into the element tree.
//
// A document is plain TOML:
//
//	[[import]]
//	from = "std-widgets"
//	names = ["Button"]
//
//	[[component]]
//	name = "App"
//	export = true
//
//	[component.root]
//	id = "win"
//	type = "Window"
//	bindings = { title = '"Demo"' }
//
//	[[component.root.children]]
//	id = "ok"
//	type = "Button"
//	bindings = { text = '"OK"', width = "win.width / 2" }
//
// Binding values are expressions in a small C-like syntax; see ParseExpr.
package frontend
