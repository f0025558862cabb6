// Package source reads the raw sitemap and its template documents.
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
	"git.home.luguber.info/inful/sitemapper/internal/templates"
)

// Kinds of source documents, used in errors and logs.
const (
	KindSitemap        = "sitemap"
	KindPageTemplates  = "page_templates"
	KindBlockTemplates = "block_templates"
)

// File is one source document as read from disk.
type File struct {
	Path   string
	Hash   string // hex SHA-256 of the content; empty when the file does not exist
	Exists bool
}

// Sources holds the parsed inputs of one build.
type Sources struct {
	Pages          []sitemap.RawPage
	PageTemplates  *templates.Document
	BlockTemplates *templates.Document

	SitemapFile        File
	PageTemplatesFile  File
	BlockTemplatesFile File
}

// Paths returns the paths of all three documents.
func (s *Sources) Paths() []string {
	return []string{s.SitemapFile.Path, s.PageTemplatesFile.Path, s.BlockTemplatesFile.Path}
}

// Load reads the documents configured in cfg. The raw sitemap must exist; a
// missing template document is treated as empty.
func Load(cfg *config.Config) (*Sources, error) {
	sitemapPath := cfg.Resolve(cfg.Sources.Sitemap)
	data, file, err := read(sitemapPath)
	if err != nil {
		return nil, serrors.SourceInvalid(KindSitemap, sitemapPath, err)
	}
	if !file.Exists {
		return nil, serrors.SourceNotFound(KindSitemap, sitemapPath)
	}

	pages, err := ParseSitemap(data)
	if err != nil {
		return nil, serrors.SourceInvalid(KindSitemap, sitemapPath, err)
	}

	out := &Sources{Pages: pages, SitemapFile: file}

	out.PageTemplates, out.PageTemplatesFile, err = loadTemplates(KindPageTemplates, cfg.Resolve(cfg.Sources.PageTemplates))
	if err != nil {
		return nil, err
	}
	out.BlockTemplates, out.BlockTemplatesFile, err = loadTemplates(KindBlockTemplates, cfg.Resolve(cfg.Sources.BlockTemplates))
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded sources",
		logfields.File(sitemapPath),
		logfields.Roots(len(pages)),
		slog.Int("page_templates", len(out.PageTemplates.Names())),
		slog.Int("block_templates", len(out.BlockTemplates.Names())))

	return out, nil
}

// ParseSitemap decodes a raw sitemap: a YAML sequence of pages. An empty
// document is an empty sitemap.
func ParseSitemap(data []byte) ([]sitemap.RawPage, error) {
	var pages []sitemap.RawPage
	if err := yaml.Unmarshal(data, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func loadTemplates(kind, path string) (*templates.Document, File, error) {
	name := filepath.Base(path)
	data, file, err := read(path)
	if err != nil {
		return nil, file, serrors.SourceInvalid(kind, path, err)
	}
	if !file.Exists {
		slog.Debug("Template document not found, using an empty one", logfields.File(path))
		return templates.Empty(name), file, nil
	}
	doc, err := templates.Parse(name, data)
	if err != nil {
		return nil, file, serrors.TemplateInvalid(path, err)
	}
	return doc, file, nil
}

func read(path string) ([]byte, File, error) {
	file := File{Path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, file, nil
	}
	if err != nil {
		return nil, file, err
	}
	file.Exists = true
	file.Hash = Hash(data)
	return data, file, nil
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
