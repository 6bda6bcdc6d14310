package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bold and italic", in: "**Total** is *fine*", want: "Total is fine"},
		{name: "star bullets", in: "Items:\n* one\n  * two", want: "Items:\n- one\n- two"},
		{name: "plus bullets", in: "+ one\n+ two", want: "- one\n- two"},
		{name: "numbered with star", in: "1. * first\n2.* second", want: "1. first\n2.second"},
		{name: "headings and quotes", in: "# Title\n> quoted\n### Sub", want: "Title\nquoted\nSub"},
		{name: "code fence", in: "```\ncode\n```", want: "code"},
		{name: "tabs", in: "a\tb", want: "a  b"},
		{name: "blank runs", in: "a\n\n\n\nb\n \n\t\n\nc", want: "a\n\nb\n\nc"},
		{name: "dashes kept", in: "- keep\n- these", want: "- keep\n- these"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkdown(tt.in))
		})
	}
}

func TestCleanMarkdownIdempotent(t *testing.T) {
	inputs := []string{
		"## Budget\n**Food**: $200\n* Rent\n+ Gas\n\n\n\n> note\n\tindented",
		"***triple*** and a lone * star",
		"1. * step\n# \n\n\n~~~\nend",
		"plain text with no markup",
		"  * leading\n\n \n \n",
		"> 1. * pay rent",
		"# 2. * item",
		"`3. * x",
		"  1. * indented numbered star",
	}

	for _, in := range inputs {
		once := CleanMarkdown(in)
		assert.Equal(t, once, CleanMarkdown(once), "input %q", in)
	}
}
