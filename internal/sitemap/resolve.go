package sitemap

import (
	"maps"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/templates"
)

// TemplateSource applies a named template to a variable set.
// *templates.Document implements it.
type TemplateSource interface {
	Apply(template string, vars templates.Vars, out any) (bool, error)
}

// VarParentID is the variable bound to the parent's identifier.
const VarParentID = "parentId"

// VarID is the variable bound to the node's own identifier.
const VarID = "id"

// templateVars builds the variable set for a node: its id, its own variables
// (which may replace id) and, when there is a parent, parentId. parentId is set
// last so node variables cannot shadow it.
func templateVars(id string, own map[string]any, parent *Page) templates.Vars {
	vars := templates.Vars{VarID: id}
	maps.Copy(vars, own)
	if parent != nil {
		vars[VarParentID] = parent.ID
	}
	return vars
}

// resolvePage merges the page's template under its own fields.
func resolvePage(raw RawPage, src TemplateSource, parent *Page) (RawPage, error) {
	if raw.Template == "" || src == nil {
		return raw, nil
	}
	var tpl RawPage
	if _, err := src.Apply(raw.Template, templateVars(raw.ID, raw.Variables, parent), &tpl); err != nil {
		return RawPage{}, serrors.TemplateApply(raw.Template, raw.ID, err)
	}
	return overlayPage(tpl, raw), nil
}

// resolveBlock merges the block's template under its own fields. The owning
// page plays the parent role.
func resolveBlock(raw RawBlock, src TemplateSource, page *Page) (RawBlock, error) {
	if raw.Template == "" || src == nil {
		return raw, nil
	}
	var tpl RawBlock
	if _, err := src.Apply(raw.Template, templateVars(raw.ID, raw.Variables, page), &tpl); err != nil {
		return RawBlock{}, serrors.TemplateApply(raw.Template, raw.ID, err).WithContext("page", page.ID)
	}
	return overlayBlock(tpl, raw), nil
}

// overlayPage returns base with every field own sets replacing base's.
func overlayPage(base, own RawPage) RawPage {
	out := base
	if own.ID != "" {
		out.ID = own.ID
	}
	if own.Path != "" {
		out.Path = own.Path
	}
	if own.Template != "" {
		out.Template = own.Template
	}
	if own.Variables != nil {
		out.Variables = own.Variables
	}
	if own.Hidden != nil {
		out.Hidden = own.Hidden
	}
	if own.DefaultBlockType != "" {
		out.DefaultBlockType = own.DefaultBlockType
	}
	if own.Children != nil {
		out.Children = own.Children
	}
	if own.Blocks != nil {
		out.Blocks = own.Blocks
	}
	out.Fields = overlayFields(base.Fields, own.Fields)
	return out
}

// overlayBlock returns base with every field own sets replacing base's.
func overlayBlock(base, own RawBlock) RawBlock {
	out := base
	if own.ID != "" {
		out.ID = own.ID
	}
	if own.Type != "" {
		out.Type = own.Type
	}
	if own.Template != "" {
		out.Template = own.Template
	}
	if own.Variables != nil {
		out.Variables = own.Variables
	}
	out.Fields = overlayFields(base.Fields, own.Fields)
	return out
}

func overlayFields(base, own map[string]any) map[string]any {
	if len(base) == 0 && len(own) == 0 {
		return nil
	}
	out := make(map[string]any, len(base)+len(own))
	maps.Copy(out, base)
	maps.Copy(out, own)
	return out
}
