package manifest

import (
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// GitCommit returns the HEAD commit of the repository containing path, or an
// empty string when path is not inside a git work tree.
func GitCommit(path string) string {
	dir := path
	if abs, err := filepath.Abs(path); err == nil {
		dir = abs
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(dir), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	ref, err := repo.Head()
	if err != nil {
		slog.Debug("Failed to get HEAD", logfields.Path(dir), logfields.Error(err))
		return ""
	}
	return ref.Hash().String()
}
