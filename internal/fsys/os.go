package fsys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// osDir serves a directory of the real filesystem.
type osDir struct {
	path string
}

// OSDir returns a Dir backed by the filesystem at path.
func OSDir(path string) Dir {
	return &osDir{path: path}
}

func (d *osDir) Name() string {
	return filepath.Base(d.path)
}

func (d *osDir) List(ctx context.Context) ([]Entry, error) {
	items, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.path, err)
	}
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		kind := KindFile
		if it.IsDir() {
			kind = KindDir
		}
		entries = append(entries, Entry{Name: it.Name(), Kind: kind})
	}
	return entries, nil
}

func (d *osDir) Dir(ctx context.Context, name string, create bool) (Dir, error) {
	child := filepath.Join(d.path, name)
	info, err := os.Stat(child)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("%s: not a directory", child)
		}
	case os.IsNotExist(err):
		if !create {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		if err := os.Mkdir(child, 0755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", child, err)
		}
	default:
		return nil, fmt.Errorf("stat %s: %w", child, err)
	}
	return &osDir{path: child}, nil
}

func (d *osDir) File(ctx context.Context, name string, create bool) (File, error) {
	child := filepath.Join(d.path, name)
	info, err := os.Stat(child)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil, fmt.Errorf("%s: is a directory", child)
		}
	case os.IsNotExist(err):
		if !create {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		f, err := os.OpenFile(child, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("create file %s: %w", child, err)
		}
		f.Close()
	default:
		return nil, fmt.Errorf("stat %s: %w", child, err)
	}
	return &osFile{path: child}, nil
}

type osFile struct {
	path string
}

func (f *osFile) Name() string {
	return filepath.Base(f.path)
}

func (f *osFile) ReadText(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.path, err)
	}
	return string(data), nil
}

// WriteText writes to a sibling temp file and renames it over the target, so
// readers never observe a half-written file.
func (f *osFile) WriteText(ctx context.Context, content string) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
