package validation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapper/internal/artifact"
	"git.home.luguber.info/inful/sitemapper/internal/manifest"
)

func writeArtifact(t *testing.T, path, body string) string {
	t.Helper()
	content := artifact.Banner(time.Now(), "raw_sitemap.yml") + body
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return manifest.Fingerprint([]byte(body))
}

func fixture(t *testing.T) (*manifest.BuildManifest, manifest.Inputs, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitemap.yml")
	fp := writeArtifact(t, path, "- id: home\n")

	inputs := manifest.Inputs{SitemapHash: "s1", PageTemplatesHash: "p1", GeneratorVersion: "1.0.0", GitCommit: "aaa"}
	prev := manifest.New(time.Now())
	prev.Inputs = inputs
	prev.Status = manifest.StatusSuccess
	prev.Outputs = manifest.Outputs{ArtifactPath: path, Fingerprint: fp}
	return prev, inputs, path
}

func TestSkipEvaluator_Skips(t *testing.T) {
	prev, inputs, path := fixture(t)
	inputs.GitCommit = "bbb"

	ok, reason := NewSkipEvaluator(nil).Evaluate(context.Background(), prev, inputs, path)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestSkipEvaluator_Rebuilds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, prev *manifest.BuildManifest, inputs *manifest.Inputs, path *string)
		reason string
	}{
		{
			name: "no previous manifest",
			mutate: func(_ *testing.T, prev *manifest.BuildManifest, _ *manifest.Inputs, _ *string) {
				*prev = manifest.BuildManifest{}
			},
			reason: "previous build did not succeed",
		},
		{
			name: "version changed",
			mutate: func(_ *testing.T, _ *manifest.BuildManifest, inputs *manifest.Inputs, _ *string) {
				inputs.GeneratorVersion = "2.0.0"
			},
			reason: "sitemapper version changed",
		},
		{
			name: "template changed",
			mutate: func(_ *testing.T, _ *manifest.BuildManifest, inputs *manifest.Inputs, _ *string) {
				inputs.BlockTemplatesHash = "b2"
			},
			reason: "inputs changed",
		},
		{
			name: "artifact edited",
			mutate: func(t *testing.T, _ *manifest.BuildManifest, _ *manifest.Inputs, path *string) {
				writeArtifact(t, *path, "- id: edited\n")
			},
			reason: "artifact modified since last build",
		},
		{
			name: "artifact deleted",
			mutate: func(t *testing.T, _ *manifest.BuildManifest, _ *manifest.Inputs, path *string) {
				require.NoError(t, os.Remove(*path))
			},
			reason: "artifact missing",
		},
		{
			name: "output moved",
			mutate: func(_ *testing.T, _ *manifest.BuildManifest, _ *manifest.Inputs, path *string) {
				*path += ".new"
			},
			reason: "artifact path changed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, inputs, path := fixture(t)
			tt.mutate(t, prev, &inputs, &path)

			ok, reason := NewSkipEvaluator(nil).Evaluate(context.Background(), prev, inputs, path)
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}

	ok, reason := NewSkipEvaluator(nil).Evaluate(context.Background(), nil, manifest.Inputs{}, "x")
	assert.False(t, ok)
	assert.Equal(t, "no previous manifest", reason)
}
