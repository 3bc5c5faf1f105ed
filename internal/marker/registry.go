package marker

import (
	"maps"

	"go.abhg.dev/pt2html/internal/ptext"
)

// Names of the marks known to the default registry.
const (
	EmphasisType      = "em"
	StrongType        = "strong"
	CodeType          = "code"
	UnderlineType     = "underline"
	StrikeThroughType = "strike-through"
	LinkType          = "link"
	CommentType       = "comment"
)

// Default is the serializer used for marks of unknown type.
// It wraps text in a plain span element.
var Default Serializer = &Tag{Name: "span"}

// Registry maps mark types to serializers.
//
// A Registry is populated before rendering begins
// and must not be modified afterwards.
// Lookups are safe for concurrent use without locking.
type Registry struct {
	serializers map[string]Serializer
	fallback    Serializer
}

// NewRegistry builds a registry with serializers
// for the standard Portable Text decorators and annotations.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.Register(EmphasisType, &Tag{Name: "em"})
	r.Register(StrongType, &Tag{Name: "strong"})
	r.Register(CodeType, &Tag{Name: "code"})
	r.Register(UnderlineType, &Tag{Name: "span", Style: "text-decoration:underline;"})
	r.Register(StrikeThroughType, &Tag{Name: "del"})
	r.Register(LinkType, new(Link))
	r.Register(CommentType, Comment{})
	return r
}

// NewEmptyRegistry builds a registry with no known marks.
// Every mark resolves to [Default].
func NewEmptyRegistry() *Registry {
	return &Registry{
		serializers: make(map[string]Serializer),
		fallback:    Default,
	}
}

// Register sets the serializer for marks of the given type,
// replacing any existing serializer for it.
func (r *Registry) Register(typ string, s Serializer) {
	r.serializers[typ] = s
}

// SetFallback changes the serializer used for unknown mark types.
func (r *Registry) SetFallback(s Serializer) {
	r.fallback = s
}

// Fallback returns the serializer used for unknown mark types.
func (r *Registry) Fallback() Serializer {
	return r.fallback
}

// Clone returns a copy of this registry
// that may be modified independently.
func (r *Registry) Clone() *Registry {
	return &Registry{
		serializers: maps.Clone(r.serializers),
		fallback:    r.fallback,
	}
}

// Lookup returns the serializer for the given mark type.
// Unknown types get the fallback serializer.
func (r *Registry) Lookup(typ string) Serializer {
	if s, ok := r.serializers[typ]; ok {
		return s
	}
	return r.fallback
}

// Mark is a mark key resolved against its block.
type Mark struct {
	// Key is the key referenced by the span.
	Key string

	// Type is the declared type of the mark.
	// For style marks, this is the same as Key.
	Type string

	Serializer Serializer
}

// Resolve resolves a mark key used on a span of block.
//
// If the block has a mark definition with that key,
// the mark's type is the type of that definition.
// Otherwise the key itself names the type.
func (r *Registry) Resolve(key string, block *ptext.Block) Mark {
	typ := key
	if md, ok := block.MarkDef(key); ok {
		typ = md.Type
	}
	return Mark{
		Key:        key,
		Type:       typ,
		Serializer: r.Lookup(typ),
	}
}
