package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/pt2html/internal/flagvalue"
	"go.abhg.dev/pt2html/internal/html"
	"go.abhg.dev/pt2html/internal/iotest"
)

func TestCLIParser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give []string
		want params
	}{
		{
			desc: "minimal",
			give: []string{"post.json"},
			want: params{
				FallbackTag: "span",
				Concurrency: 1,
				Inputs:      []string{"post.json"},
			},
		},
		{
			desc: "stdin",
			give: []string{"-"},
			want: params{
				FallbackTag: "span",
				Concurrency: 1,
				Inputs:      []string{"-"},
			},
		},
		{
			desc: "many arguments",
			give: []string{
				"-debug=log.txt",
				"-out", "build/site",
				"-title", "Notes",
				"-standalone",
				"-mark", "highlight=mark",
				"-mark=badge=span.badge",
				"-fallback-tag", "i",
				"-base-url", "https://example.com/",
				"-per-span",
				"-dangling=fallback",
				"-normalize", "NFC",
				"-highlight", "github",
				"-highlight-classes",
				"-j", "4",
				"a.json",
				"b.json",
			},
			want: params{
				Debug:       "log.txt",
				OutputDir:   "build/site",
				Title:       "Notes",
				Standalone:  true,
				FallbackTag: "i",
				BaseURL:     "https://example.com/",
				Marks: []flagvalue.MarkSpec{
					{Type: "highlight", Element: "mark"},
					{Type: "badge", Element: "span", Class: "badge"},
				},
				PerSpan:          true,
				Dangling:         html.DanglingFallback,
				Normalize:        html.NFC,
				Highlight:        "github",
				HighlightClasses: true,
				Concurrency:      4,
				Inputs:           []string{"a.json", "b.json"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got, err := (&cliParser{
				Stdout: iotest.Writer(t),
				Stderr: iotest.Writer(t),
				NoEnv:  true,
			}).Parse(tt.give)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCLIParser_configFile(t *testing.T) {
	t.Parallel()

	config := filepath.Join(t.TempDir(), "pt2html.conf")
	require.NoError(t, os.WriteFile(config, []byte(
		"# rendering options\n"+
			"standalone\n"+
			"highlight monokai\n"+
			"mark highlight=mark\n"+
			"dangling fallback\n",
	), 0o644))

	got, err := (&cliParser{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
		NoEnv:  true,
	}).Parse([]string{"-config", config, "-highlight", "github", "post.json"})
	require.NoError(t, err)

	assert.True(t, got.Standalone)
	assert.Equal(t, "github", got.Highlight, "command line must win")
	assert.Equal(t, []flagvalue.MarkSpec{{Type: "highlight", Element: "mark"}}, got.Marks)
	assert.Equal(t, html.DanglingFallback, got.Dangling)
	assert.Equal(t, []string{"post.json"}, got.Inputs)
}

// Not parallel: modifies the environment.
func TestCLIParser_env(t *testing.T) {
	t.Setenv("PT2HTML_BASE_URL", "https://example.com/")
	t.Setenv("PT2HTML_PER_SPAN", "true")

	got, err := (&cliParser{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Parse([]string{"post.json"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/", got.BaseURL)
	assert.True(t, got.PerSpan)
}

func TestCLIParser_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give []string
		want string // expected messages
	}{
		{
			desc: "no inputs",
			want: "Please provide at least one file",
		},
		{
			desc: "unrecognized",
			give: []string{"-foo=bar", "post.json"},
			want: "flag provided but not defined: -foo",
		},
		{
			desc: "bad mark",
			give: []string{"-mark", "highlight", "post.json"},
			want: "expected form 'type=element[.class]'",
		},
		{
			desc: "bad dangling policy",
			give: []string{"-dangling", "ignore", "post.json"},
			want: `unknown policy "ignore"`,
		},
		{
			desc: "bad normalization",
			give: []string{"-normalize", "nfx", "post.json"},
			want: `unknown normalization form "nfx"`,
		},
		{
			desc: "bad concurrency",
			give: []string{"-j", "0", "post.json"},
			want: "-j must be at least 1",
		},
		{
			desc: "both frontmatter flags",
			give: []string{"-frontmatter", "x", "-frontmatter-file", "y", "post.json"},
			want: "cannot be used together",
		},
		{
			desc: "unknown help topic",
			give: []string{"-help=nope"},
			want: `unknown help topic "nope"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			_, err := (&cliParser{
				Stdout: iotest.Writer(t),
				Stderr: &stderr,
				NoEnv:  true,
			}).Parse(tt.give)
			require.Error(t, err)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestCLIParser_helpTopic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give []string
		want string
	}{
		{desc: "default", give: []string{"-h"}, want: "USAGE: pt2html"},
		{desc: "joint", give: []string{"-help=mark"}, want: "strike-through"},
		{desc: "separate", give: []string{"-h", "config"}, want: "PT2HTML_"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			_, err := (&cliParser{
				Stdout: iotest.Writer(t),
				Stderr: &stderr,
				NoEnv:  true,
			}).Parse(tt.give)
			require.ErrorIs(t, err, errHelp)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}
