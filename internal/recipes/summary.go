package recipes

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainSummary strips markup from an HTML recipe summary and collapses
// whitespace, returning the visible text only.
func PlainSummary(summary string) string {
	if summary == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(summary))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			}
			if isBlock(a) {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// PlainSummary returns the recipe summary without markup.
func (r Result) PlainSummary() string {
	return PlainSummary(r.Summary)
}

// WithPlainSummaries returns a copy of f whose summaries have been stripped
// of markup. f itself is left untouched.
func (f FoodRecipe) WithPlainSummaries() FoodRecipe {
	if f.Results == nil {
		return f
	}
	out := make([]Result, len(f.Results))
	for i, r := range f.Results {
		r.Summary = r.PlainSummary()
		out[i] = r
	}
	return FoodRecipe{Results: out}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Br, atom.Div, atom.Li, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Tr, atom.Td, atom.Th, atom.Table, atom.Hr:
		return true
	}
	return false
}
