// Package langtype describes the builtin element types known to the compiler
// and the value types of their properties.
package langtype

import "sort"

// PropertyType is the value type of a property.
type PropertyType uint8

const (
	PropInvalid PropertyType = iota
	PropLength
	PropFloat
	PropInt
	PropBool
	PropString
	PropBrush
	PropImage
	PropCallback
	PropModel
)

var propertyTypeNames = [...]string{
	PropInvalid:  "invalid",
	PropLength:   "length",
	PropFloat:    "float",
	PropInt:      "int",
	PropBool:     "bool",
	PropString:   "string",
	PropBrush:    "brush",
	PropImage:    "image",
	PropCallback: "callback",
	PropModel:    "model",
}

func (t PropertyType) String() string {
	if int(t) < len(propertyTypeNames) {
		return propertyTypeNames[t]
	}
	return "invalid"
}

// ParsePropertyType maps a declaration spelling to a PropertyType.
func ParsePropertyType(s string) (PropertyType, bool) {
	for i, name := range propertyTypeNames {
		if name == s && i != int(PropInvalid) {
			return PropertyType(i), true
		}
	}
	return PropInvalid, false
}

// Builtin describes a natively implemented element.
type Builtin struct {
	Name       string
	Properties map[string]PropertyType
	// Layout marks elements that arrange their children.
	Layout bool
	// NoChildren marks leaf elements.
	NoChildren bool
}

// Property returns the type of a builtin property.
func (b *Builtin) Property(name string) (PropertyType, bool) {
	if b == nil {
		return PropInvalid, false
	}
	t, ok := b.Properties[name]
	return t, ok
}

// PropertyNames returns the property names in sorted order.
func (b *Builtin) PropertyNames() []string {
	names := make([]string, 0, len(b.Properties))
	for name := range b.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GeometryProperties are present on every element, whatever its type.
var GeometryProperties = map[string]PropertyType{
	"x":      PropLength,
	"y":      PropLength,
	"width":  PropLength,
	"height": PropLength,
}

// IsGeometry reports whether name is one of the geometry slots.
func IsGeometry(name string) bool {
	_, ok := GeometryProperties[name]
	return ok
}

func with(base map[string]PropertyType, extra map[string]PropertyType) map[string]PropertyType {
	out := make(map[string]PropertyType, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Builtins returns fresh descriptors for the builtin elements.
func Builtins() []*Builtin {
	return []*Builtin{
		{Name: "Window", Properties: with(GeometryProperties, map[string]PropertyType{
			"title":            PropString,
			"background":       PropBrush,
			"preferred-width":  PropLength,
			"preferred-height": PropLength,
		})},
		{Name: "MenuBar", Properties: with(GeometryProperties, nil)},
		{Name: "Menu", Properties: with(GeometryProperties, map[string]PropertyType{
			"title": PropString,
		})},
		{Name: "MenuItem", Properties: with(GeometryProperties, map[string]PropertyType{
			"title":     PropString,
			"enabled":   PropBool,
			"activated": PropCallback,
		}), NoChildren: true},
		{Name: "VerticalLayout", Layout: true, Properties: with(GeometryProperties, map[string]PropertyType{
			"spacing": PropLength,
			"padding": PropLength,
		})},
		{Name: "HorizontalLayout", Layout: true, Properties: with(GeometryProperties, map[string]PropertyType{
			"spacing": PropLength,
			"padding": PropLength,
		})},
		{Name: "Rectangle", Properties: with(GeometryProperties, map[string]PropertyType{
			"background":    PropBrush,
			"border-width":  PropLength,
			"border-radius": PropLength,
		})},
		{Name: "Text", NoChildren: true, Properties: with(GeometryProperties, map[string]PropertyType{
			"text":      PropString,
			"color":     PropBrush,
			"font-size": PropLength,
		})},
		{Name: "TouchArea", Properties: with(GeometryProperties, map[string]PropertyType{
			"pressed": PropBool,
			"enabled": PropBool,
			"clicked": PropCallback,
		})},
		{Name: "Image", NoChildren: true, Properties: with(GeometryProperties, map[string]PropertyType{
			"source": PropImage,
		})},
	}
}
