package sitemap

import "strings"

// pagePath derives a page's canonical path. An explicit path is used verbatim
// as the local segment, otherwise the segment is "/" + id. Under a parent the
// segment is appended to the parent's path minus one trailing slash. The
// result always ends with "/".
func pagePath(explicit, id string, parent *Page) string {
	local := explicit
	if local == "" {
		local = "/" + id
	}

	path := local
	if parent != nil {
		path = strings.TrimSuffix(parent.Path, "/") + local
	}

	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// blockPath derives a block's path from its owning page.
func blockPath(page *Page, id string) string {
	return page.Path + id + "/"
}
