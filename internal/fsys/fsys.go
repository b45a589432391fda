package fsys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a named child does not exist. Callers use
// errors.Is to distinguish "missing" from real failures (permission, I/O).
var ErrNotFound = errors.New("not found")

// EntryKind distinguishes files from directories in a listing.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
)

func (k EntryKind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// MarshalJSON renders the kind as its name so the web UI gets
// "file"/"directory" rather than an integer.
func (k EntryKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *EntryKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "directory":
		*k = KindDir
	case "file":
		*k = KindFile
	default:
		return fmt.Errorf("unknown entry kind %q", s)
	}
	return nil
}

// Entry is a single item in a directory listing.
type Entry struct {
	Name string    `json:"name"`
	Kind EntryKind `json:"kind"`
}

// File is a handle to a single readable/writable text file.
type File interface {
	Name() string
	ReadText(ctx context.Context) (string, error)
	// WriteText replaces the full content atomically.
	WriteText(ctx context.Context, content string) error
}

// Dir is the injected file-access capability. Implementations exist for the
// real filesystem (OSDir) and in-memory trees for tests (MemDir).
type Dir interface {
	Name() string
	List(ctx context.Context) ([]Entry, error)
	// Dir opens a child directory, creating it first when create is set.
	// A missing child without create returns an error wrapping ErrNotFound.
	Dir(ctx context.Context, name string, create bool) (Dir, error)
	// File opens a child file, creating an empty one when create is set.
	File(ctx context.Context, name string, create bool) (File, error)
}

// ResolveDir walks a slash-separated relative path to a directory handle.
func ResolveDir(ctx context.Context, root Dir, path string) (Dir, error) {
	d := root
	if path == "" {
		return d, nil
	}
	for _, seg := range strings.Split(path, "/") {
		next, err := d.Dir(ctx, seg, false)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		d = next
	}
	return d, nil
}

// ResolveFile walks a slash-separated relative path to a file handle.
func ResolveFile(ctx context.Context, root Dir, path string) (File, error) {
	dir, base := splitPath(path)
	d, err := ResolveDir(ctx, root, dir)
	if err != nil {
		return nil, err
	}
	f, err := d.File(ctx, base, false)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return f, nil
}

func splitPath(path string) (dir, base string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}
