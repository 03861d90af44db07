// Package ir is the document-level intermediate representation shared by the
// lowering passes: documents own components, components own a root element,
// elements own their children and hold property bindings.
//
// Ownership runs strictly downward. Back-references (element → enclosing
// component, component → enclosing document) are weak pointers: they are
// used for lookup only and never keep anything alive. A component used as an
// element type is held by that ElementType, so its lifetime is the longest of
// the document and every element instantiating it.
//
// A NamedReference names "property P of element E" and is the unit of
// binding and rebinding. References compare by element identity, so two
// separately constructed references to the same element and property are
// equal. RewriteAll replaces one reference by another in every expression
// and geometry slot of a document; passes that move a property to another
// element use it to keep bindings pointing at the right place.
package ir
