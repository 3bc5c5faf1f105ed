package ptext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
)

var (
	// ErrMissingType indicates that an object has no _type field.
	ErrMissingType = errors.New("missing _type")

	// ErrInvalidType indicates that _type is present
	// but is not a non-empty string.
	ErrInvalidType = errors.New("invalid _type")

	// ErrInvalidMarks indicates that a span's marks are not
	// an array of strings.
	ErrInvalidMarks = errors.New("marks must be an array of strings")

	// ErrExpectedObject indicates that a JSON object was expected.
	ErrExpectedObject = errors.New("expected JSON object")

	// ErrExpectedArray indicates that a JSON array was expected.
	ErrExpectedArray = errors.New("expected JSON array")
)

// Error is a decoding failure at a specific location in the input.
type Error struct {
	Op   string // "decode", "block", "span", "markDef"
	Path string // e.g. "[3].children[1].marks"
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("ptext %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ptext %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapf(op, path string, err error) error {
	return errtrace.Wrap(&Error{Op: op, Path: path, Err: err})
}

// DecodeString decodes a document from a JSON string.
func DecodeString(s string) (Document, error) {
	return errtrace.Wrap2(Decode(strings.NewReader(s)))
}

// Decode decodes a Portable Text document from JSON.
//
// The input is either an array of blocks
// or a single block object, which is treated as a one-block document.
// Decode verifies only what's needed to render the document:
// every block, span, and mark definition must have a _type,
// and marks must be strings.
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, wrapf("decode", "", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		b, err := decodeBlock(raw, "")
		if err != nil {
			return nil, err
		}
		return Document{b}, nil
	}

	items, err := decodeArray(raw)
	if err != nil {
		return nil, wrapf("decode", "", err)
	}

	doc := make(Document, 0, len(items))
	for i, item := range items {
		b, err := decodeBlock(item, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		doc = append(doc, b)
	}
	return doc, nil
}

func decodeBlock(data []byte, path string) (*Block, error) {
	obj, typ, err := decodeTypedObject(data)
	if err != nil {
		return nil, wrapf("block", path, err)
	}

	b := Block{Type: typ, Fields: make(map[string]any)}
	for name, v := range obj {
		switch name {
		case "_type":
			// already handled
		case "_key":
			b.Key = stringOr(v, "")
		case "style":
			b.Style = stringOr(v, "")
		case "listItem":
			b.ListItem = stringOr(v, "")
		case "level":
			if n, ok := v.(json.Number); ok {
				if lvl, err := n.Int64(); err == nil {
					b.Level = int(lvl)
					continue
				}
			}
			b.Fields[name] = v
		case "children":
			if v == nil {
				continue
			}
			b.Children, err = decodeSpans(v, path+".children")
			if err != nil {
				return nil, err
			}
		case "markDefs":
			if v == nil {
				continue
			}
			b.MarkDefs, err = decodeMarkDefs(v, path+".markDefs")
			if err != nil {
				return nil, err
			}
		default:
			b.Fields[name] = v
		}
	}
	return &b, nil
}

func decodeSpans(v any, path string) ([]*Span, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, wrapf("block", path, ErrExpectedArray)
	}

	spans := make([]*Span, 0, len(items))
	for i, item := range items {
		spath := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, wrapf("span", spath, ErrExpectedObject)
		}
		typ, err := typeOf(obj)
		if err != nil {
			return nil, wrapf("span", spath, err)
		}

		s := Span{
			Type: typ,
			Key:  stringOr(obj["_key"], ""),
			Text: stringOr(obj["text"], ""),
		}
		if marks, ok := obj["marks"]; ok && marks != nil {
			s.Marks, err = decodeMarks(marks)
			if err != nil {
				return nil, wrapf("span", spath+".marks", err)
			}
		}
		spans = append(spans, &s)
	}
	return spans, nil
}

func decodeMarks(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errtrace.Wrap(ErrInvalidMarks)
	}
	marks := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errtrace.Wrap(ErrInvalidMarks)
		}
		marks[i] = s
	}
	return marks, nil
}

func decodeMarkDefs(v any, path string) ([]*MarkDef, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, wrapf("block", path, ErrExpectedArray)
	}

	defs := make([]*MarkDef, 0, len(items))
	for i, item := range items {
		mpath := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, wrapf("markDef", mpath, ErrExpectedObject)
		}
		typ, err := typeOf(obj)
		if err != nil {
			return nil, wrapf("markDef", mpath, err)
		}

		md := MarkDef{
			Type:  typ,
			Key:   stringOr(obj["_key"], ""),
			Attrs: make(map[string]any, len(obj)),
		}
		for name, v := range obj {
			if name == "_type" || name == "_key" {
				continue
			}
			md.Attrs[name] = v
		}
		defs = append(defs, &md)
	}
	return defs, nil
}

func decodeTypedObject(data []byte) (map[string]any, string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, "", errtrace.Wrap(ErrExpectedObject)
		}
		return nil, "", errtrace.Wrap(err)
	}
	if obj == nil {
		return nil, "", errtrace.Wrap(ErrExpectedObject)
	}

	typ, err := typeOf(obj)
	if err != nil {
		return nil, "", err
	}
	return obj, typ, nil
}

func decodeArray(data []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errtrace.Wrap(ErrExpectedArray)
		}
		return nil, errtrace.Wrap(err)
	}
	return items, nil
}

func typeOf(obj map[string]any) (string, error) {
	v, ok := obj["_type"]
	if !ok {
		return "", errtrace.Wrap(ErrMissingType)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errtrace.Wrap(ErrInvalidType)
	}
	return s, nil
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}
