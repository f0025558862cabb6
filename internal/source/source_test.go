package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
)

func setup(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	cfg := config.Default()
	cfg.BaseDir = dir
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := setup(t, map[string]string{
		"config/raw_sitemap.yml":    "- id: home\n  template: landing\n",
		"config/page_templates.yml": "landing:\n  title: Landing\n",
	})

	src, err := Load(cfg)
	require.NoError(t, err)

	require.Len(t, src.Pages, 1)
	assert.Equal(t, "home", src.Pages[0].ID)
	assert.True(t, src.PageTemplates.Has("landing"))
	assert.Empty(t, src.BlockTemplates.Names(), "missing template document is empty")

	assert.True(t, src.SitemapFile.Exists)
	assert.Len(t, src.SitemapFile.Hash, 64)
	assert.True(t, src.PageTemplatesFile.Exists)
	assert.False(t, src.BlockTemplatesFile.Exists)
	assert.Empty(t, src.BlockTemplatesFile.Hash)
	assert.Len(t, src.Paths(), 3)
}

func TestLoad_MissingSitemap(t *testing.T) {
	cfg := setup(t, nil)

	_, err := Load(cfg)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestLoad_InvalidDocuments(t *testing.T) {
	t.Run("sitemap is not a sequence", func(t *testing.T) {
		cfg := setup(t, map[string]string{"config/raw_sitemap.yml": "home: {}\n"})
		_, err := Load(cfg)
		require.Error(t, err)
		assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
	})

	t.Run("template document is not a mapping", func(t *testing.T) {
		cfg := setup(t, map[string]string{
			"config/raw_sitemap.yml":     "- id: home\n",
			"config/block_templates.yml": "- hero\n",
		})
		_, err := Load(cfg)
		require.Error(t, err)
		assert.True(t, serrors.IsCategory(err, serrors.CategoryTemplate))
	})
}

func TestParseSitemap_Empty(t *testing.T) {
	pages, err := ParseSitemap(nil)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(nil))
}
