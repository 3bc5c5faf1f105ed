package flagvalue

import (
	"errors"
	"flag"
	"fmt"
	"regexp"
	"strings"

	"go.abhg.dev/pt2html/internal/marker"
)

// _elementName matches the HTML element names
// that may be used for custom marks.
var _elementName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// MarkSpec is a flag value that maps a mark type
// to an HTML element.
//
// It accepts values in the form:
//
//	type=element
//	type=element.class
//
// For example, "highlight=mark" or "badge=span.badge".
type MarkSpec struct {
	Type    string
	Element string
	Class   string
}

var _ flag.Getter = (*MarkSpec)(nil)

// Get returns the MarkSpec.
func (ms *MarkSpec) Get() any { return ms }

// String returns the mark in the form accepted by Set.
func (ms *MarkSpec) String() string {
	if ms.Type == "" {
		return ""
	}
	s := ms.Type + "=" + ms.Element
	if ms.Class != "" {
		s += "." + ms.Class
	}
	return s
}

// Set parses a mark specification.
func (ms *MarkSpec) Set(s string) error {
	typ, elem, ok := strings.Cut(s, "=")
	if !ok || typ == "" {
		return errors.New("expected form 'type=element[.class]'")
	}

	elem, class, _ := strings.Cut(elem, ".")
	elem, err := ElementName(elem)
	if err != nil {
		return err
	}

	ms.Type = typ
	ms.Element = elem
	ms.Class = class
	return nil
}

// ElementName validates the name of an HTML element
// and returns it in lower case.
func ElementName(s string) (string, error) {
	if !_elementName.MatchString(s) {
		return "", fmt.Errorf("invalid element name %q", s)
	}
	return strings.ToLower(s), nil
}

// Serializer builds a serializer for this mark.
func (ms *MarkSpec) Serializer() marker.Serializer {
	return &marker.Tag{Name: ms.Element, Class: ms.Class}
}
