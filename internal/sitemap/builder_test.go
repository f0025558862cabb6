package sitemap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/templates"
)

func mustRaw(t *testing.T, src string) []RawPage {
	t.Helper()
	var raw []RawPage
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	return raw
}

func mustDoc(t *testing.T, name, src string) *templates.Document {
	t.Helper()
	doc, err := templates.Parse(name, []byte(src))
	require.NoError(t, err)
	return doc
}

func TestPagePath(t *testing.T) {
	about := &Page{ID: "about", Path: "/about/"}
	root := &Page{ID: "home", Path: "/"}

	tests := []struct {
		name     string
		explicit string
		id       string
		parent   *Page
		want     string
	}{
		{"root from id", "", "about", nil, "/about/"},
		{"child from id", "", "team", about, "/about/team/"},
		{"explicit root", "/", "home", nil, "/"},
		{"explicit without slash", "/contact", "contact", nil, "/contact/"},
		{"explicit under parent", "/people/", "team", about, "/about/people/"},
		{"child of slash root", "", "news", root, "/news/"},
		{"explicit nested segments", "/a/b", "x", about, "/about/a/b/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagePath(tt.explicit, tt.id, tt.parent))
		})
	}
}

func TestBlockPath(t *testing.T) {
	assert.Equal(t, "/about/hero/", blockPath(&Page{Path: "/about/"}, "hero"))
}

func TestMaterialize_PathsAndOrder(t *testing.T) {
	raw := mustRaw(t, `
- id: about
  blocks:
    - id: hero
  children:
    - id: team
    - id: jobs
- id: contact
`)

	stack, err := Compute(context.Background(), raw, nil, nil)
	require.NoError(t, err)

	require.Len(t, stack.Hierarchy, 2)
	require.Len(t, stack.Flat, 4)

	var paths []string
	for _, p := range stack.Flat {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"/about/", "/about/team/", "/about/jobs/", "/contact/"}, paths)

	about := stack.Hierarchy[0]
	require.Len(t, about.Blocks, 1)
	assert.Equal(t, "/about/hero/", about.Blocks[0].Path)
	assert.Equal(t, DefaultBlockType, about.Blocks[0].Type)
	assert.Same(t, stack.Flat[1], about.Children[0])
	assert.NotNil(t, stack.Flat[3].Children)
	assert.Empty(t, stack.Flat[3].Children)
}

func TestMaterialize_DefaultBlockTypeInheritance(t *testing.T) {
	raw := mustRaw(t, `
- id: docs
  defaultBlockType: section
  blocks:
    - id: intro
    - id: aside
      type: note
  children:
    - id: guide
      blocks:
        - id: body
      children:
        - id: deep
          defaultBlockType: card
- id: plain
`)

	stack, err := Compute(context.Background(), raw, nil, nil)
	require.NoError(t, err)

	byID := map[string]*Page{}
	for _, p := range stack.Flat {
		byID[p.ID] = p
	}

	assert.Equal(t, "section", byID["docs"].DefaultBlockType)
	assert.Equal(t, "section", byID["guide"].DefaultBlockType)
	assert.Equal(t, "card", byID["deep"].DefaultBlockType)
	assert.Equal(t, DefaultBlockType, byID["plain"].DefaultBlockType)

	assert.Equal(t, "section", byID["docs"].Blocks[0].Type)
	assert.Equal(t, "note", byID["docs"].Blocks[1].Type)
	assert.Equal(t, "section", byID["guide"].Blocks[0].Type)
}

func TestMaterialize_Templates(t *testing.T) {
	pages := mustDoc(t, "page_templates.yml", `
article:
  title: Article <%= id %>
  component: Article
  weight: <%= order %>
  query:
    parent: ${parentId}
  blocks:
    - id: header
      template: banner
`)
	blocks := mustDoc(t, "block_templates.yml", `
banner:
  type: banner
  heading: <%= id %> of <%= parentId %>
`)

	raw := mustRaw(t, `
- id: blog
  children:
    - id: first
      template: article
      title: My first post
      variables:
        order: 3
    - id: second
      template: article
      variables:
        order: 4
      blocks:
        - id: own
`)

	stack, err := Compute(context.Background(), raw, pages, blocks)
	require.NoError(t, err)
	require.Len(t, stack.Flat, 3)

	first := stack.Flat[1]
	assert.Equal(t, "My first post", first.Fields["title"], "own fields win over template fields")
	assert.Equal(t, "Article", first.Fields["component"])
	assert.Equal(t, 3, first.Fields["weight"], "substituted scalars are re-typed")
	assert.Equal(t, map[string]any{"parent": "blog"}, first.Fields["query"])

	require.Len(t, first.Blocks, 1, "template supplies blocks")
	header := first.Blocks[0]
	assert.Equal(t, "banner", header.Type)
	assert.Equal(t, "/blog/first/header/", header.Path)
	assert.Equal(t, "header of first", header.Fields["heading"])

	second := stack.Flat[2]
	assert.Equal(t, "Article second", second.Fields["title"])
	require.Len(t, second.Blocks, 1, "own blocks replace template blocks")
	assert.Equal(t, "own", second.Blocks[0].ID)
}

func TestMaterialize_ParentIDCannotBeOverridden(t *testing.T) {
	pages := mustDoc(t, "page_templates.yml", `
child:
  parent_ref: <%= parentId %>
  self_ref: <%= id %>
`)
	raw := mustRaw(t, `
- id: root
  children:
    - id: leaf
      template: child
      variables:
        parentId: forged
        id: renamed
`)

	stack, err := Compute(context.Background(), raw, pages, nil)
	require.NoError(t, err)

	leaf := stack.Flat[1]
	assert.Equal(t, "root", leaf.Fields["parent_ref"])
	assert.Equal(t, "renamed", leaf.Fields["self_ref"], "node variables may replace id")
	assert.Equal(t, "leaf", leaf.ID)
}

func TestMaterialize_MissingTemplateIsEmpty(t *testing.T) {
	raw := mustRaw(t, `
- id: orphan
  template: nowhere
  title: Orphan
`)

	stack, err := Compute(context.Background(), raw, templates.Empty("page_templates.yml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Orphan", stack.Flat[0].Fields["title"])
	assert.Equal(t, "/orphan/", stack.Flat[0].Path)
}

func TestMaterialize_TemplateErrorAborts(t *testing.T) {
	pages := mustDoc(t, "page_templates.yml", `
broken:
  children: "<%= id %>"
`)
	raw := mustRaw(t, `
- id: ok
- id: bad
  template: broken
`)

	stack, err := Compute(context.Background(), raw, pages, nil)
	require.Error(t, err)
	assert.Nil(t, stack)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryTemplate))
}

func TestMaterialize_ComputedKeysAreDropped(t *testing.T) {
	raw := mustRaw(t, `
- id: a
  previous: stale
  next: stale
  blocks:
    - id: b
      path: /elsewhere/
`)

	stack, err := Compute(context.Background(), raw, nil, nil)
	require.NoError(t, err)

	a := stack.Flat[0]
	assert.Nil(t, a.Previous)
	assert.Nil(t, a.Next)
	assert.Nil(t, a.Fields)
	assert.Equal(t, "/a/b/", a.Blocks[0].Path)
	assert.Nil(t, a.Blocks[0].Fields)
}

func TestMaterialize_HiddenIsStrict(t *testing.T) {
	raw := mustRaw(t, `
- id: unset
- id: shown
  is_hidden: false
- id: secret
  is_hidden: true
`)

	stack, err := Compute(context.Background(), raw, nil, nil)
	require.NoError(t, err)
	assert.False(t, stack.Flat[0].Hidden)
	assert.False(t, stack.Flat[1].Hidden)
	assert.True(t, stack.Flat[2].Hidden)
}

func TestHierarchyYAMLRoundTrip(t *testing.T) {
	raw := mustRaw(t, `
- id: home
  path: /
  title: Home
  children:
    - id: about
      variables:
        tone: friendly
      blocks:
        - id: hero
          type: banner
          caption: Hello
- id: contact
  is_hidden: true
`)

	stack, err := Compute(context.Background(), raw, nil, nil)
	require.NoError(t, err)

	first, err := yaml.Marshal(stack.Hierarchy)
	require.NoError(t, err)

	var decoded []*Page
	require.NoError(t, yaml.Unmarshal(first, &decoded))

	second, err := yaml.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	require.Len(t, decoded, 2)
	assert.Equal(t, "/about/", decoded[0].Children[0].Path)
	assert.Equal(t, "/about/hero/", decoded[0].Children[0].Blocks[0].Path)
	assert.Equal(t, &NavRef{ID: "home", Path: "/"}, decoded[0].Children[0].Previous)
}
