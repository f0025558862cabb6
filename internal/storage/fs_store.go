package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FSStore is a filesystem-based SnapshotStore with the layout:
//
//	<base>/
//	  objects/
//	    ab/
//	      cd1234... (first 2 chars = subdir, rest = filename)
//	  refs/
//	    builds/
//	      <build id> (file containing the snapshot hash)
type FSStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFSStore creates a new filesystem-based snapshot store.
func NewFSStore(basePath string) (*FSStore, error) {
	dirs := []string{
		filepath.Join(basePath, "objects"),
		filepath.Join(basePath, "refs", "builds"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return &FSStore{basePath: basePath}, nil
}

// Put stores data and records it as buildID's snapshot.
func (fs *FSStore) Put(ctx context.Context, buildID string, data []byte) (string, error) {
	if err := validBuildID(buildID); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	objectPath := fs.objectPath(hash)
	if _, err := os.Stat(objectPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(objectPath), 0o750); err != nil {
			return "", fmt.Errorf("create object directory: %w", err)
		}
		if err := os.WriteFile(objectPath, data, 0o600); err != nil {
			return "", fmt.Errorf("write object: %w", err)
		}
	}

	if err := os.WriteFile(fs.refPath(buildID), []byte(hash+"\n"), 0o600); err != nil {
		return hash, fmt.Errorf("write build ref: %w", err)
	}
	return hash, nil
}

// Get retrieves a snapshot by its content hash.
func (fs *FSStore) Get(_ context.Context, hash string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	// #nosec G304 - objectPath is internal, constructed from a hex hash
	data, err := os.ReadFile(fs.objectPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound{Key: hash}
		}
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// ForBuild returns the snapshot hash of buildID or of the single build whose
// ID starts with it.
func (fs *FSStore) ForBuild(_ context.Context, buildID string) (string, error) {
	if err := validBuildID(buildID); err != nil {
		return "", err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	hash, err := fs.readRef(buildID)
	if err == nil || !os.IsNotExist(err) {
		return hash, err
	}

	refs, err := fs.listRefs()
	if err != nil {
		return "", err
	}
	var match string
	for _, ref := range refs {
		if strings.HasPrefix(ref.buildID, buildID) {
			if match != "" {
				return "", fmt.Errorf("build id prefix %q is ambiguous", buildID)
			}
			match = ref.buildID
		}
	}
	if match == "" {
		return "", ErrNotFound{Key: buildID}
	}
	return fs.readRef(match)
}

// Prune removes all but the keep most recent build refs, then every object no
// remaining ref points to. keep <= 0 disables pruning.
func (fs *FSStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	refs, err := fs.listRefs()
	if err != nil {
		return 0, err
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].modTime.After(refs[j].modTime) })

	referenced := make(map[string]bool)
	for i, ref := range refs {
		if i >= keep {
			if err := os.Remove(fs.refPath(ref.buildID)); err != nil && !os.IsNotExist(err) {
				return 0, fmt.Errorf("remove build ref: %w", err)
			}
			continue
		}
		hash, err := fs.readRef(ref.buildID)
		if err != nil {
			return 0, err
		}
		referenced[hash] = true
	}

	removed := 0
	objectsDir := filepath.Join(fs.basePath, "objects")
	err = filepath.WalkDir(objectsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(objectsDir, path)
		if err != nil {
			return err
		}
		hash := strings.ReplaceAll(rel, string(filepath.Separator), "")
		if referenced[hash] {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("prune objects: %w", err)
	}
	return removed, nil
}

type buildRef struct {
	buildID string
	modTime time.Time
}

func (fs *FSStore) listRefs() ([]buildRef, error) {
	entries, err := os.ReadDir(filepath.Join(fs.basePath, "refs", "builds"))
	if err != nil {
		return nil, fmt.Errorf("list build refs: %w", err)
	}
	refs := make([]buildRef, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		refs = append(refs, buildRef{buildID: e.Name(), modTime: info.ModTime()})
	}
	return refs, nil
}

func (fs *FSStore) readRef(buildID string) (string, error) {
	// #nosec G304 - refPath is internal, buildID is validated
	data, err := os.ReadFile(fs.refPath(buildID))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// objectPath returns the filesystem path for an object.
func (fs *FSStore) objectPath(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(fs.basePath, "objects", hash)
	}
	// Use first 2 chars as directory, rest as filename
	return filepath.Join(fs.basePath, "objects", hash[:2], hash[2:])
}

func (fs *FSStore) refPath(buildID string) string {
	return filepath.Join(fs.basePath, "refs", "builds", buildID)
}

func validBuildID(buildID string) error {
	if buildID == "" || strings.ContainsAny(buildID, `/\`) || buildID == "." || buildID == ".." {
		return fmt.Errorf("invalid build id %q", buildID)
	}
	return nil
}
