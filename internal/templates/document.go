// Package templates holds named template documents for sitemap nodes.
//
// A document is a YAML mapping of template name to a partial field-set. It is
// parsed once into a node tree; applying a template copies the entry's tree,
// substitutes placeholders inside scalars against a typed variable set, and
// decodes the result into the caller's struct. No text is re-parsed after
// substitution, so a variable value can never change the document's structure.
package templates

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Document is a parsed template document.
type Document struct {
	name    string
	entries map[string]*yaml.Node
	order   []string
}

// Empty returns a document without templates.
func Empty(name string) *Document {
	return &Document{name: name, entries: map[string]*yaml.Node{}}
}

// Parse parses a template document. Empty input yields an empty document.
func Parse(name string, data []byte) (*Document, error) {
	doc := Empty(name)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse template document %s: %w", name, err)
	}
	if root.Kind == 0 {
		return doc, nil
	}

	body := &root
	if body.Kind == yaml.DocumentNode {
		if len(body.Content) == 0 {
			return doc, nil
		}
		body = body.Content[0]
	}
	if body.Kind == yaml.ScalarNode && body.Tag == "!!null" {
		return doc, nil
	}
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse template document %s: line %d: expected a mapping of template names", name, body.Line)
	}

	for i := 0; i+1 < len(body.Content); i += 2 {
		key, value := body.Content[i], body.Content[i+1]
		if _, dup := doc.entries[key.Value]; dup {
			return nil, fmt.Errorf("parse template document %s: line %d: template %q defined twice", name, key.Line, key.Value)
		}
		doc.entries[key.Value] = value
		doc.order = append(doc.order, key.Value)
	}
	return doc, nil
}

// Name returns the document name (usually its file name).
func (d *Document) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Has reports whether the document defines the named template.
func (d *Document) Has(template string) bool {
	if d == nil {
		return false
	}
	_, ok := d.entries[template]
	return ok
}

// Names returns the template names sorted alphabetically.
func (d *Document) Names() []string {
	if d == nil {
		return nil
	}
	names := append([]string(nil), d.order...)
	sort.Strings(names)
	return names
}

// Apply renders the named template with vars and decodes it into out.
// A template that does not exist leaves out untouched and reports found=false.
func (d *Document) Apply(template string, vars Vars, out any) (found bool, err error) {
	if d == nil {
		return false, nil
	}
	entry, ok := d.entries[template]
	if !ok {
		return false, nil
	}

	node := cloneNode(entry, 0)
	if node == nil {
		return true, errors.New("alias nesting too deep")
	}
	if err := substitute(node, vars); err != nil {
		return true, fmt.Errorf("render template %q from %s: %w", template, d.name, err)
	}
	if err := node.Decode(out); err != nil {
		return true, fmt.Errorf("decode template %q from %s: %w", template, d.name, err)
	}
	return true, nil
}

const maxAliasDepth = 64

// cloneNode deep-copies n, expanding aliases so substitution never touches the
// shared anchor.
func cloneNode(n *yaml.Node, depth int) *yaml.Node {
	if n == nil {
		return nil
	}
	if depth > maxAliasDepth {
		return nil
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return cloneNode(n.Alias, depth+1)
	}
	c := *n
	c.Anchor = ""
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			cc := cloneNode(child, depth)
			if cc == nil {
				return nil
			}
			c.Content[i] = cc
		}
	}
	return &c
}

func substitute(n *yaml.Node, vars Vars) error {
	if n.Kind == yaml.ScalarNode {
		value, changed, err := RenderString(n.Value, vars)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		if changed {
			n.Value = value
			if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) == 0 {
				// Plain scalars are re-resolved, so "<%= order %>" can become an int.
				n.Tag = ""
			}
		}
		return nil
	}
	for _, child := range n.Content {
		if err := substitute(child, vars); err != nil {
			return err
		}
	}
	return nil
}
