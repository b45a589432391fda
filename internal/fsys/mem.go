package fsys

import (
	"context"
	"fmt"
	"sort"
)

// MemDir is an in-memory Dir for tests. Listing failures can be injected
// per directory to exercise partial-scan behavior.
type MemDir struct {
	name    string
	dirs    map[string]*MemDir
	files   map[string]*MemFile
	listErr error
	openErr error
}

// NewMemDir creates an empty in-memory directory.
func NewMemDir(name string) *MemDir {
	return &MemDir{
		name:  name,
		dirs:  map[string]*MemDir{},
		files: map[string]*MemFile{},
	}
}

// AddDir adds (or returns the existing) child directory.
func (d *MemDir) AddDir(name string) *MemDir {
	if sub, ok := d.dirs[name]; ok {
		return sub
	}
	sub := NewMemDir(name)
	d.dirs[name] = sub
	return sub
}

// AddFile adds a child file with the given content.
func (d *MemDir) AddFile(name, content string) *MemFile {
	f := &MemFile{name: name, content: content}
	d.files[name] = f
	return f
}

// AddPath builds nested directories along slash-separated segments and adds
// a file with the final segment's name.
func (d *MemDir) AddPath(segments []string, file, content string) *MemFile {
	cur := d
	for _, seg := range segments {
		cur = cur.AddDir(seg)
	}
	return cur.AddFile(file, content)
}

// FailList makes every List call on this directory fail with err.
func (d *MemDir) FailList(err error) {
	d.listErr = err
}

// FailOpen makes every Dir/File open on this directory fail with err.
func (d *MemDir) FailOpen(err error) {
	d.openErr = err
}

func (d *MemDir) Name() string { return d.name }

func (d *MemDir) List(ctx context.Context) ([]Entry, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	var entries []Entry
	for name := range d.dirs {
		entries = append(entries, Entry{Name: name, Kind: KindDir})
	}
	for name := range d.files {
		entries = append(entries, Entry{Name: name, Kind: KindFile})
	}
	// Reverse name order so callers that need ordering have to sort themselves.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name > entries[j].Name })
	return entries, nil
}

func (d *MemDir) Dir(ctx context.Context, name string, create bool) (Dir, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	if sub, ok := d.dirs[name]; ok {
		return sub, nil
	}
	if create {
		return d.AddDir(name), nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

func (d *MemDir) File(ctx context.Context, name string, create bool) (File, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	if f, ok := d.files[name]; ok {
		return f, nil
	}
	if create {
		return d.AddFile(name, ""), nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// MemFile is the in-memory File implementation.
type MemFile struct {
	name    string
	content string
}

func (f *MemFile) Name() string { return f.name }

func (f *MemFile) ReadText(ctx context.Context) (string, error) {
	return f.content, nil
}

func (f *MemFile) WriteText(ctx context.Context, content string) error {
	f.content = content
	return nil
}
