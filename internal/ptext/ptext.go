// Package ptext models Portable Text documents.
//
// A [Document] is an ordered list of [Block]s.
// Text blocks hold [Span]s, which reference marks by key.
// Style marks use the mark type as the key (e.g. "strong"),
// while annotations reference a [MarkDef] on the owning block.
package ptext

// Document is a Portable Text document.
type Document []*Block

// BlockType is the _type of ordinary text blocks.
const BlockType = "block"

// SpanType is the _type of text spans.
const SpanType = "span"

// Block is a single top-level Portable Text node.
type Block struct {
	// Type is the _type of the block.
	// Text blocks use [BlockType].
	Type string

	// Key uniquely identifies the block in its document, if set.
	Key string

	// Style is the block style: "normal", "h1", "blockquote", etc.
	Style string

	// ListItem is the list type ("bullet" or "number")
	// if this block is a list item.
	ListItem string

	// Level is the nesting level of a list item.
	// Zero means the field was absent.
	Level int

	Children []*Span
	MarkDefs []*MarkDef

	// Fields holds all fields of the block that aren't modeled above.
	// Custom block types such as code blocks keep their data here.
	Fields map[string]any
}

// IsText reports whether this is a text block.
func (b *Block) IsText() bool {
	return b.Type == BlockType
}

// ListLevel returns the list nesting level, defaulting to 1.
func (b *Block) ListLevel() int {
	if b.Level < 1 {
		return 1
	}
	return b.Level
}

// MarkDef returns the mark definition with the given key.
func (b *Block) MarkDef(key string) (*MarkDef, bool) {
	for _, md := range b.MarkDefs {
		if md.Key == key {
			return md, true
		}
	}
	return nil, false
}

// Field returns a string field from [Block.Fields],
// or an empty string if the field is absent or not a string.
func (b *Block) Field(name string) string {
	s, _ := b.Fields[name].(string)
	return s
}

// Span is an inline child of a block.
type Span struct {
	// Type is the _type of the child.
	// Text runs use [SpanType];
	// anything else is an inline object.
	Type string
	Key  string

	// Text is the raw text of the span.
	// It has not been escaped.
	Text string

	// Marks lists keys of marks applied to this span, in order.
	Marks []string
}

// IsText reports whether this is a text span.
func (s *Span) IsText() bool {
	return s.Type == SpanType
}

// MarkDef is an annotation definition on a block.
type MarkDef struct {
	Key  string
	Type string

	// Attrs holds every field other than _key and _type,
	// for example "href" on links.
	Attrs map[string]any
}

// Attr returns the string attribute with the given name.
// It returns an empty string if the attribute is absent or not a string.
func (md *MarkDef) Attr(name string) string {
	s, _ := md.Attrs[name].(string)
	return s
}
