package flagvalue

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/pt2html/internal/marker"
	"go.abhg.dev/pt2html/internal/ptext"
)

func TestMarkSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc       string
		give       string
		want       MarkSpec
		wantPrefix string
	}{
		{
			desc:       "element",
			give:       "highlight=mark",
			want:       MarkSpec{Type: "highlight", Element: "mark"},
			wantPrefix: "<mark>",
		},
		{
			desc:       "class",
			give:       "badge=SPAN.badge",
			want:       MarkSpec{Type: "badge", Element: "span", Class: "badge"},
			wantPrefix: `<span class="badge">`,
		},
		{
			desc:       "custom element",
			give:       "kbd=x-key",
			want:       MarkSpec{Type: "kbd", Element: "x-key"},
			wantPrefix: "<x-key>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
			var got MarkSpec
			fset.Var(&got, "mark", "")
			require.NoError(t, fset.Parse([]string{"-mark", tt.give}))
			assert.Equal(t, tt.want, got)
			assert.Same(t, &got, got.Get())

			s := got.Serializer()
			assert.Equal(t, marker.Style, s.Kind())
			prefix, err := s.Prefix(&ptext.Span{}, got.Type, &ptext.Block{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrefix, prefix)
		})
	}
}

func TestMarkSpec_String(t *testing.T) {
	t.Parallel()

	assert.Empty(t, new(MarkSpec).String())
	assert.Equal(t, "a=b", (&MarkSpec{Type: "a", Element: "b"}).String())
	assert.Equal(t, "a=b.c", (&MarkSpec{Type: "a", Element: "b", Class: "c"}).String())
}

func TestMarkSpec_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{desc: "no '='", give: "mark", want: "expected form 'type=element[.class]'"},
		{desc: "no type", give: "=mark", want: "expected form"},
		{desc: "empty element", give: "x=", want: "invalid element name"},
		{desc: "bad element", give: `x=a"b`, want: "invalid element name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
			fset.SetOutput(io.Discard)
			fset.Var(new(MarkSpec), "mark", "")
			err := fset.Parse([]string{"-mark", tt.give})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestListOf_markSpecs(t *testing.T) {
	t.Parallel()

	fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
	var specs []MarkSpec
	fset.Var(ListOf(&specs), "mark", "")
	require.NoError(t, fset.Parse([]string{"-mark", "a=b", "-mark=c=d.e"}))

	assert.Equal(t, []MarkSpec{
		{Type: "a", Element: "b"},
		{Type: "c", Element: "d", Class: "e"},
	}, specs)
}

func TestElementName(t *testing.T) {
	t.Parallel()

	got, err := ElementName("SPAN")
	require.NoError(t, err)
	assert.Equal(t, "span", got)

	_, err = ElementName("1span")
	assert.ErrorContains(t, err, `invalid element name "1span"`)
}
