package ops

import (
	"fmt"
	"html"
	"strings"
)

// Attribute is one name/value pair set on an emitted element.
type Attribute struct {
	Name  string
	Value string
}

// classAlias stands in for "class" where templates cannot use the bare word.
const classAlias = "class_"

// AttributesFromPairs builds attributes from flat name, value arguments as
// written in templates: embed_image(data, "png", "class_", "photo", "width", "96").
func AttributesFromPairs(pairs ...string) ([]Attribute, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d arguments", ErrInvalidAttributes, len(pairs))
	}
	attrs := make([]Attribute, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		attrs = append(attrs, Attribute{Name: pairs[i], Value: pairs[i+1]})
	}
	return attrs, nil
}

// NormalizeAttributes renames class_ to class, keeping the original order.
// Supplying both forms is an error. A repeated name keeps its last value
// in the position of its first occurrence.
func NormalizeAttributes(attrs []Attribute) ([]Attribute, error) {
	var hasClass, hasAlias bool
	for _, a := range attrs {
		switch a.Name {
		case "class":
			hasClass = true
		case classAlias:
			hasAlias = true
		}
	}
	if hasClass && hasAlias {
		return nil, fmt.Errorf("%w: cannot set both %s and class", ErrConflictingAttribute, classAlias)
	}

	out := make([]Attribute, 0, len(attrs))
	index := make(map[string]int, len(attrs))
	for _, a := range attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: empty attribute name", ErrInvalidAttributes)
		}
		if a.Name == classAlias {
			a.Name = "class"
		}
		if i, ok := index[a.Name]; ok {
			out[i].Value = a.Value
			continue
		}
		index[a.Name] = len(out)
		out = append(out, a)
	}
	return out, nil
}

// formatAttributes renders attrs as ` name="value"` pairs with a leading space.
func formatAttributes(attrs []Attribute) string {
	var b strings.Builder
	for _, a := range attrs {
		fmt.Fprintf(&b, ` %s="%s"`, a.Name, html.EscapeString(a.Value))
	}
	return b.String()
}
