package sitemap

import "fmt"

// IssueKind classifies a Check finding.
type IssueKind string

const (
	IssueUnknownPageTemplate  IssueKind = "unknown_page_template"
	IssueUnknownBlockTemplate IssueKind = "unknown_block_template"
	IssueDuplicatePath        IssueKind = "duplicate_path"
	IssueDuplicateBlockID     IssueKind = "duplicate_block_id"
	IssueMissingID            IssueKind = "missing_id"
)

// Issue is a non-fatal problem found in a computed sitemap.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	PageID  string    `json:"page_id"`
	BlockID string    `json:"block_id,omitempty"`
	Path    string    `json:"path,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// TemplateIndex reports whether a template name is defined.
// *templates.Document implements it.
type TemplateIndex interface {
	Has(name string) bool
}

// Check inspects a computed stack for references and identities that compute
// tolerates but that are most likely mistakes. Either index may be nil, in
// which case no template is known.
func Check(stack *Stack, pages, blocks TemplateIndex) []Issue {
	var issues []Issue
	seenPaths := make(map[string]string)

	for _, p := range stack.Flat {
		if p.ID == "" {
			issues = append(issues, Issue{
				Kind:    IssueMissingID,
				Path:    p.Path,
				Message: fmt.Sprintf("page at %s has no id", p.Path),
			})
		}
		if p.Template != "" && !known(pages, p.Template) {
			issues = append(issues, Issue{
				Kind:    IssueUnknownPageTemplate,
				PageID:  p.ID,
				Path:    p.Path,
				Message: fmt.Sprintf("page %q references unknown template %q", p.ID, p.Template),
			})
		}
		if first, ok := seenPaths[p.Path]; ok {
			issues = append(issues, Issue{
				Kind:    IssueDuplicatePath,
				PageID:  p.ID,
				Path:    p.Path,
				Message: fmt.Sprintf("page %q has the same path as page %q", p.ID, first),
			})
		} else {
			seenPaths[p.Path] = p.ID
		}

		seenBlocks := make(map[string]bool, len(p.Blocks))
		for _, b := range p.Blocks {
			if b.Template != "" && !known(blocks, b.Template) {
				issues = append(issues, Issue{
					Kind:    IssueUnknownBlockTemplate,
					PageID:  p.ID,
					BlockID: b.ID,
					Path:    b.Path,
					Message: fmt.Sprintf("block %q on page %q references unknown template %q", b.ID, p.ID, b.Template),
				})
			}
			if seenBlocks[b.ID] {
				issues = append(issues, Issue{
					Kind:    IssueDuplicateBlockID,
					PageID:  p.ID,
					BlockID: b.ID,
					Path:    b.Path,
					Message: fmt.Sprintf("page %q declares block %q more than once", p.ID, b.ID),
				})
			}
			seenBlocks[b.ID] = true
		}
	}
	return issues
}

func known(index TemplateIndex, name string) bool {
	return index != nil && index.Has(name)
}
