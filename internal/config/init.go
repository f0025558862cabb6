package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const exampleRawSitemap = `# Pages of the site. Children nest, blocks are the content units of a page.
- id: home
  path: /
  title: Home
  defaultBlockType: section
  blocks:
    - id: hero
      template: hero
      variables:
        headline: Welcome
- id: blog
  title: Blog
  children:
    - id: hello-world
      template: article
      variables:
        title: Hello, world
        order: 1
    - id: drafts
      is_hidden: true
- id: about
  title: About
  children:
    - id: team
      title: Team
`

const examplePageTemplates = `# Page templates. Placeholders: <%= var %>, <%- var %> (HTML-escaped), ${var}.
article:
  title: <%= title %>
  component: Article
  weight: <%= order %>
  query:
    parent: <%= parentId %>
  blocks:
    - id: body
      type: markdown
`

const exampleBlockTemplates = `hero:
  type: hero
  heading: <%= headline %>
  anchor: <%= parentId %>-<%= id %>
`

// Init writes an example configuration file and, next to it, example source
// documents. Existing files are kept unless force is set. It returns the
// paths that were written.
func Init(configPath string, force bool) ([]string, error) {
	if _, err := os.Stat(configPath); err == nil && !force {
		return nil, fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Version: CurrentVersion,
		Sources: SourcesConfig{
			Sitemap:        defaultSitemapSource,
			PageTemplates:  defaultPageTemplates,
			BlockTemplates: defaultBlockTemplates,
		},
		Output: OutputConfig{
			Sitemap:  defaultArtifact,
			Manifest: defaultManifest,
		},
		History: HistoryConfig{
			Enabled:     true,
			Path:        defaultHistory,
			Snapshots:   true,
			SnapshotDir: defaultSnapshotDir,
			Keep:        20,
		},
		Metrics: MetricsConfig{Enabled: false, Textfile: defaultTextfile},
		Notify: NotifyConfig{
			Enabled:    false,
			URL:        "${NATS_URL}",
			Subject:    defaultSubject,
			Retries:    2,
			Backoff:    "linear",
			RetryDelay: "500ms",
		},
		Watch:   WatchConfig{Debounce: defaultDebounce.String()},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}
	written := []string{configPath}

	base := filepath.Dir(configPath)
	examples := []struct {
		path    string
		content string
	}{
		{defaultSitemapSource, exampleRawSitemap},
		{defaultPageTemplates, examplePageTemplates},
		{defaultBlockTemplates, exampleBlockTemplates},
	}
	for _, ex := range examples {
		target := filepath.Join(base, ex.path)
		if _, err := os.Stat(target); err == nil && !force {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, []byte(ex.content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", target, err)
		}
		written = append(written, target)
	}

	return written, nil
}
