package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.abhg.dev/pt2html/internal/ptext"
)

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	block := &ptext.Block{
		Type: ptext.BlockType,
		MarkDefs: []*ptext.MarkDef{
			{Key: "markDef123", Type: "link"},
			{Key: "c1", Type: "comment"},
			{Key: "x9", Type: "footnote"},
		},
	}

	reg := NewRegistry()
	tests := []struct {
		desc     string
		key      string
		wantType string
		wantKind Kind
	}{
		{desc: "style", key: "strong", wantType: "strong", wantKind: Style},
		{desc: "annotation", key: "markDef123", wantType: "link", wantKind: Annotation},
		{desc: "comment", key: "c1", wantType: "comment", wantKind: Annotation},
		{desc: "unknown style", key: "sparkle", wantType: "sparkle", wantKind: Style},
		{desc: "unknown annotation", key: "x9", wantType: "footnote", wantKind: Style},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got := reg.Resolve(tt.key, block)
			assert.Equal(t, tt.key, got.Key)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantKind, got.Serializer.Kind())
		})
	}
}

func TestRegistry_unknownUsesFallback(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.Same(t, Default, reg.Lookup("nope"))
	assert.Same(t, Default, reg.Fallback())

	custom := &Tag{Name: "i"}
	reg.SetFallback(custom)
	assert.Same(t, custom, reg.Lookup("nope"))
}

func TestRegistry_Clone(t *testing.T) {
	t.Parallel()

	base := NewRegistry()
	clone := base.Clone()

	hl := &Tag{Name: "mark"}
	clone.Register("highlight", hl)
	clone.SetFallback(&Tag{Name: "i"})

	assert.Same(t, hl, clone.Lookup("highlight"))
	assert.Same(t, Default, base.Lookup("highlight"),
		"original must not see registrations on the clone")
	assert.Same(t, Default, base.Fallback())
}

func TestNewEmptyRegistry(t *testing.T) {
	t.Parallel()

	reg := NewEmptyRegistry()
	assert.Same(t, Default, reg.Lookup("strong"))
}
