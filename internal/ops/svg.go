package ops

import (
	"fmt"

	"github.com/beevik/etree"
)

// SetFill sets the fill color of every path element in svg.
func SetFill(svg, color string) (string, error) {
	return editPaths(svg, "fill", color)
}

// SetStroke sets the stroke color of every path element in svg.
func SetStroke(svg, color string) (string, error) {
	return editPaths(svg, "stroke", color)
}

// AddAttributes sets attrs on the root element of svg, replacing existing values.
func AddAttributes(svg string, attrs []Attribute) (string, error) {
	attrs, err := NormalizeAttributes(attrs)
	if err != nil {
		return "", err
	}
	root, err := parseSVG(svg)
	if err != nil {
		return "", err
	}
	for _, a := range attrs {
		root.CreateAttr(a.Name, a.Value)
	}
	return serializeSVG(root)
}

func editPaths(svg, attr, value string) (string, error) {
	root, err := parseSVG(svg)
	if err != nil {
		return "", err
	}
	setOnPaths(root, attr, value)
	return serializeSVG(root)
}

func setOnPaths(e *etree.Element, attr, value string) {
	if e.Tag == "path" {
		e.CreateAttr(attr, value)
	}
	for _, child := range e.ChildElements() {
		setOnPaths(child, attr, value)
	}
}

func parseSVG(svg string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(svg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSVG, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedSVG)
	}
	return root, nil
}

// serializeSVG writes root alone, dropping any XML declaration, doctype or
// comments that surrounded it in the source.
func serializeSVG(root *etree.Element) (string, error) {
	out := etree.NewDocument()
	out.SetRoot(root.Copy())
	s, err := out.WriteToString()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSVG, err)
	}
	return s, nil
}
