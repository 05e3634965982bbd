// Package statefile locates, loads and atomically saves the WirePlumber
// stream-properties state file.
package statefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/wpvol/internal/streamprops"
)

// EnvStateHome overrides the base state directory, as WirePlumber does.
const EnvStateHome = "XDG_STATE_HOME"

// defaultMode applies when the file is created rather than replaced.
const defaultMode fs.FileMode = 0o644

// DefaultPath returns $XDG_STATE_HOME/wireplumber/stream-properties, or
// ~/.local/state/wireplumber/stream-properties when the variable is unset.
func DefaultPath() (string, error) {
	base := os.Getenv(EnvStateHome)
	if base == "" || !filepath.IsAbs(base) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "wireplumber", "stream-properties"), nil
}

// Load parses the state file at path. A missing file is an error; callers
// can test for it with errors.Is(err, fs.ErrNotExist).
func Load(path string) (*streamprops.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}
	defer f.Close()

	s, err := streamprops.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Save renders s and replaces path with it.
//
// The content goes to a temp file in the same directory which is then renamed
// over path, so readers see either the old or the new file. The existing
// file's permission bits are kept. When path is a symlink the link's target
// is replaced and the link itself is left in place.
func Save(path string, s *streamprops.Store) error {
	data, err := s.Render()
	if err != nil {
		return err
	}

	path, err = resolveLinks(path)
	if err != nil {
		return err
	}

	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat state file: %w", err)
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".stream-properties-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		tmpFile.Close()
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync state file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace state file %s: %w", path, err)
	}

	success = true
	return nil
}

// maxLinks bounds symlink chains, matching the Linux ELOOP limit.
const maxLinks = 40

// resolveLinks follows path through any chain of symlinks to the file that
// should be replaced. A dangling final link resolves to its missing target.
func resolveLinks(path string) (string, error) {
	for i := 0; i < maxLinks; i++ {
		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat state file: %w", err)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}

		dest, err := os.Readlink(path)
		if err != nil {
			return "", fmt.Errorf("resolve state file: %w", err)
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		path = dest
	}
	return "", &fs.PathError{Op: "resolve", Path: path, Err: errors.New("too many levels of symbolic links")}
}
