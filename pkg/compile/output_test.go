package compile

import (
	"testing"

	"github.com/arthur-debert/typeset/pkg/args"
	"github.com/stretchr/testify/assert"
)

func TestResolveFormat(t *testing.T) {
	assert.Equal(t, args.FormatSVG, resolveFormat(&args.CompileArgs{Format: args.FormatSVG, Output: "x.png"}))
	assert.Equal(t, args.FormatPNG, resolveFormat(&args.CompileArgs{Output: "x.png"}))
	assert.Equal(t, args.FormatPDF, resolveFormat(&args.CompileArgs{}))
	assert.Equal(t, args.FormatPDF, resolveFormat(&args.CompileArgs{Output: "-"}))
}

func TestDeriveOutput(t *testing.T) {
	assert.Equal(t, "docs/main.pdf", deriveOutput("docs/main.typ", args.FormatPDF))
	assert.Equal(t, "main.html", deriveOutput("main", args.FormatHTML))
}

func TestExpandPageTemplate(t *testing.T) {
	tests := []struct {
		template    string
		page, total int
		want        string
	}{
		{"page-{p}.png", 3, 12, "page-3.png"},
		{"page-{0p}.png", 3, 12, "page-03.png"},
		{"page-{0p}.png", 3, 9, "page-3.png"},
		{"{p}-of-{t}.svg", 7, 120, "7-of-120.svg"},
		{"static.png", 1, 1, "static.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandPageTemplate(tt.template, tt.page, tt.total), tt.template)
	}
}

func TestHasPageTemplate(t *testing.T) {
	assert.True(t, hasPageTemplate("a-{p}.png"))
	assert.True(t, hasPageTemplate("a-{0p}.png"))
	assert.False(t, hasPageTemplate("a-{t}.png"))
}

func TestSelectPages(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, selectPages(nil, 3))
	assert.Equal(t, []int{1, 4, 5}, selectPages([]args.PageRange{{Start: 1, End: 1}, {Start: 4}}, 5))
	assert.Empty(t, selectPages([]args.PageRange{{Start: 9}}, 3))
}

func TestMakeDeps(t *testing.T) {
	got := makeDeps([]string{"out file.pdf"}, []string{"a.typ", "$HOME#1.typ"})
	assert.Equal(t, `out\ file.pdf: a.typ $$HOME\#1.typ`+"\n", got)
}

func TestOpenCommand(t *testing.T) {
	assert.Equal(t, []string{"xdg-open", "doc.pdf"}, openCommand("linux", "doc.pdf", "").Args)
	assert.Equal(t, []string{"open", "doc.pdf"}, openCommand("darwin", "doc.pdf", "").Args)
	assert.Equal(t, []string{"open", "-a", "Preview", "doc.pdf"}, openCommand("darwin", "doc.pdf", "Preview").Args)
	assert.Equal(t, []string{"zathura", "doc.pdf"}, openCommand("linux", "doc.pdf", "zathura").Args)
	assert.Equal(t, []string{"cmd", "/c", "start", "", "doc.pdf"}, openCommand("windows", "doc.pdf", "").Args)
}
