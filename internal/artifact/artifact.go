// Package artifact renders, writes and re-reads the generated sitemap file.
//
// The artifact is a YAML dump of the page hierarchy behind a DO-NOT-EDIT
// banner. The banner consists of YAML comments, so the file stays loadable by
// any YAML reader.
package artifact

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// Generator is the tool name written into the banner.
const Generator = "sitemapper"

// TimestampLayout is the banner timestamp format (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

const (
	rule            = "###################################################################"
	generatedPrefix = "# generated on: "
)

// Banner returns the comment block placed above the YAML body.
func Banner(generatedAt time.Time, sourceName string) string {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("# DO NOT EDIT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "# this file was generated by `%s`\n", Generator)
	fmt.Fprintf(&b, "# please edit `%s` instead.\n", sourceName)
	b.WriteString(generatedPrefix + generatedAt.UTC().Format(TimestampLayout) + "\n")
	b.WriteString(rule + "\n")
	return b.String()
}

// Body serializes the hierarchy. Only the hierarchy is written; the flat list
// is derivable from it.
func Body(hierarchy []*sitemap.Page) ([]byte, error) {
	if hierarchy == nil {
		hierarchy = []*sitemap.Page{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(hierarchy); err != nil {
		return nil, fmt.Errorf("encode hierarchy: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode hierarchy: %w", err)
	}
	return buf.Bytes(), nil
}

// Render returns the complete artifact content.
func Render(hierarchy []*sitemap.Page, generatedAt time.Time, sourceName string) ([]byte, error) {
	body, err := Body(hierarchy)
	if err != nil {
		return nil, err
	}
	return append([]byte(Banner(generatedAt, sourceName)), body...), nil
}

// Write replaces path with content. The content goes to a temporary file in
// the target directory first, so readers see either the old or the new
// artifact and a failed write leaves the old one in place.
func Write(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return serrors.ArtifactWriteFailed(path, fmt.Errorf("create output directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return serrors.ArtifactWriteFailed(path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return serrors.ArtifactWriteFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return serrors.ArtifactWriteFailed(path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return serrors.ArtifactWriteFailed(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return serrors.ArtifactWriteFailed(path, fmt.Errorf("atomic rename: %w", err))
	}
	return nil
}

// Split separates the leading comment banner from the YAML body.
func Split(data []byte) (banner, body []byte) {
	i := 0
	for i < len(data) {
		end := bytes.IndexByte(data[i:], '\n')
		line := data[i:]
		if end >= 0 {
			line = data[i : i+end+1]
		}
		if !bytes.HasPrefix(line, []byte("#")) {
			break
		}
		i += len(line)
	}
	return data[:i], data[i:]
}

// GeneratedAt extracts the generation timestamp from an artifact banner.
func GeneratedAt(data []byte) (time.Time, bool) {
	banner, _ := Split(data)
	scanner := bufio.NewScanner(bytes.NewReader(banner))
	for scanner.Scan() {
		line := scanner.Text()
		if ts, ok := strings.CutPrefix(line, generatedPrefix); ok {
			t, err := time.Parse(TimestampLayout, strings.TrimSpace(ts))
			if err != nil {
				return time.Time{}, false
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// Parse reads an artifact back into its page hierarchy.
func Parse(data []byte) ([]*sitemap.Page, error) {
	var pages []*sitemap.Page
	if err := yaml.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	return pages, nil
}

// Read loads and parses the artifact at path.
func Read(path string) ([]*sitemap.Page, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	pages, err := Parse(data)
	if err != nil {
		return nil, time.Time{}, err
	}
	at, _ := GeneratedAt(data)
	return pages, at, nil
}
