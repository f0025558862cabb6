// Package sitemap builds the site hierarchy from raw page configuration.
//
// Building happens in two passes. Materialize walks the raw configuration
// depth-first, resolving templates and paths, and registers every page in a
// Stack: roots in Hierarchy and every page, in pre-order, in Flat. Sequence
// then links each page in Flat to its neighbours with NavRefs.
//
// Generator ties both passes to a caller-owned Cache so a process computes
// the sitemap once.
package sitemap
