package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testFields struct {
	ID     string         `yaml:"id"`
	Title  string         `yaml:"title"`
	Weight int            `yaml:"weight"`
	Hidden *bool          `yaml:"is_hidden"`
	Extra  map[string]any `yaml:",inline"`
}

const pageTemplates = `
article:
  title: "Article <%= id %>"
  weight: <%= order %>
  query: |
    allArticles(filter: {parent: "${parentId}"})
listing:
  title: Listing
  is_hidden: true
base: &base
  layout: wide
derived:
  <<: *base
  title: ${id}
empty:
`

func TestParse(t *testing.T) {
	doc, err := Parse("page_templates.yml", []byte(pageTemplates))
	require.NoError(t, err)
	require.Equal(t, "page_templates.yml", doc.Name())
	require.Equal(t, []string{"article", "base", "derived", "empty", "listing"}, doc.Names())
	require.True(t, doc.Has("article"))
	require.False(t, doc.Has("missing"))
}

func TestParse_Empty(t *testing.T) {
	doc, err := Parse("empty.yml", nil)
	require.NoError(t, err)
	require.Empty(t, doc.Names())

	doc, err = Parse("comment.yml", []byte("# nothing here\n"))
	require.NoError(t, err)
	require.Empty(t, doc.Names())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("bad.yml", []byte("article: [unclosed"))
	require.Error(t, err)

	_, err = Parse("list.yml", []byte("- a\n- b\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected a mapping")

	_, err = Parse("dup.yml", []byte("a: {}\na: {}\n"))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	doc, err := Parse("page_templates.yml", []byte(pageTemplates))
	require.NoError(t, err)

	var out testFields
	found, err := doc.Apply("article", Vars{"id": "news", "order": 7, "parentId": "blog"}, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Article news", out.Title)
	require.Equal(t, 7, out.Weight, "plain scalars are re-resolved after substitution")
	require.Equal(t, "allArticles(filter: {parent: \"blog\"})\n", out.Extra["query"])
}

func TestApply_QuotedStaysString(t *testing.T) {
	doc, err := Parse("t.yml", []byte(`t:
  title: "<%= n %>"
  weight: <%= n %>
`))
	require.NoError(t, err)

	var out map[string]any
	_, err = doc.Apply("t", Vars{"n": 42}, &out)
	require.NoError(t, err)
	require.Equal(t, "42", out["title"])
	require.Equal(t, 42, out["weight"])
}

func TestApply_DoesNotMutateDocument(t *testing.T) {
	doc, err := Parse("page_templates.yml", []byte(pageTemplates))
	require.NoError(t, err)

	var first, second testFields
	_, err = doc.Apply("derived", Vars{"id": "one"}, &first)
	require.NoError(t, err)
	_, err = doc.Apply("derived", Vars{"id": "two"}, &second)
	require.NoError(t, err)

	require.Equal(t, "one", first.Title)
	require.Equal(t, "two", second.Title)
	require.Equal(t, "wide", second.Extra["layout"], "merge keys survive alias expansion")
}

func TestApply_MissingTemplate(t *testing.T) {
	doc, err := Parse("page_templates.yml", []byte(pageTemplates))
	require.NoError(t, err)

	out := testFields{Title: "untouched"}
	found, err := doc.Apply("nope", Vars{"id": "x"}, &out)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, "untouched", out.Title)
}

func TestApply_NullEntry(t *testing.T) {
	doc, err := Parse("page_templates.yml", []byte(pageTemplates))
	require.NoError(t, err)

	var out testFields
	found, err := doc.Apply("empty", Vars{}, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testFields{}, out)
}

func TestApply_TypeMismatchFails(t *testing.T) {
	doc, err := Parse("t.yml", []byte("t:\n  is_hidden: <%= flag %>\n"))
	require.NoError(t, err)

	var out testFields
	_, err = doc.Apply("t", Vars{"flag": "sometimes"}, &out)
	require.Error(t, err)
}

func TestApply_NilDocument(t *testing.T) {
	var doc *Document
	found, err := doc.Apply("x", nil, &testFields{})
	require.NoError(t, err)
	require.False(t, found)
}
