// Package storage keeps drawings as JSON files in one directory: the
// persistent drawing restored on start, dated snapshots and named saves.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/state"

	"github.com/google/uuid"
)

const (
	ext            = ".json"
	persistentName = "persistent"
	datedLayout    = "2006-01-02 15.04.05"
)

// Drawing is a drawing file, existing or not.
type Drawing struct {
	Name       string
	Path       string
	Persistent bool
	ModTime    time.Time
}

// Files is a drawings directory.
type Files struct {
	dir string
	now func() time.Time
}

func New(dir string) *Files {
	return &Files{dir: dir, now: time.Now}
}

func (f *Files) Dir() string { return f.dir }

func (f *Files) drawing(name string) Drawing {
	return Drawing{Name: name, Path: filepath.Join(f.dir, name+ext), Persistent: name == persistentName}
}

// Persistent is the drawing saved when the drawing mode is left and
// loaded when it is entered again.
func (f *Files) Persistent() Drawing {
	return f.drawing(persistentName)
}

// Dated returns a new drawing named after the current time. A name already
// taken gets a short random suffix.
func (f *Files) Dated() Drawing {
	d := f.drawing(f.now().Format(datedLayout))
	if exists(d.Path) {
		d = f.drawing(d.Name + " " + uuid.NewString()[:8])
	}
	return d
}

// Named returns the drawing called name. Path separators are not allowed.
func (f *Files) Named(name string) (Drawing, error) {
	name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ext))
	switch {
	case name == "":
		return Drawing{}, errors.New("drawing name is empty")
	case name == persistentName:
		return Drawing{}, fmt.Errorf("drawing name %q is reserved", name)
	case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
		return Drawing{}, fmt.Errorf("drawing name %q is not a file name", name)
	}
	return f.drawing(name), nil
}

// List returns the saved drawings, the most recently modified first. The
// persistent drawing is not listed.
func (f *Files) List() ([]Drawing, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	var out []Drawing
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		d := f.drawing(strings.TrimSuffix(e.Name(), ext))
		if d.Persistent {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		d.ModTime = info.ModTime()
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// Previous returns the drawing saved before cur, or the latest one when
// there is no current drawing.
func (f *Files) Previous(cur *Drawing) (Drawing, bool) {
	list, err := f.List()
	if err != nil || len(list) == 0 {
		return Drawing{}, false
	}
	if cur == nil {
		return list[0], true
	}
	i := index(list, *cur)
	if i < 0 || i+1 >= len(list) {
		return Drawing{}, false
	}
	return list[i+1], true
}

// Next returns the drawing saved after cur.
func (f *Files) Next(cur *Drawing) (Drawing, bool) {
	if cur == nil {
		return Drawing{}, false
	}
	list, err := f.List()
	if err != nil {
		return Drawing{}, false
	}
	i := index(list, *cur)
	if i <= 0 {
		return Drawing{}, false
	}
	return list[i-1], true
}

func index(list []Drawing, d Drawing) int {
	for i, l := range list {
		if l.Path == d.Path {
			return i
		}
	}
	return -1
}

// Save writes elements to d. The file is replaced atomically.
func (f *Files) Save(d Drawing, elements []*state.Element) error {
	data, err := state.Encode(elements)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("save drawing %s: %w", d.Name, err)
	}
	tmp, err := os.CreateTemp(f.dir, ".drawing-*")
	if err != nil {
		return fmt.Errorf("save drawing %s: %w", d.Name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save drawing %s: %w", d.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save drawing %s: %w", d.Name, err)
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("save drawing %s: %w", d.Name, err)
	}
	logging.Logger().Info("drawing saved", "name", d.Name, "elements", len(elements))
	return nil
}

// Load reads d. A missing file is an empty drawing. Invalid records are
// skipped and reported in the error next to the elements that were read.
func (f *Files) Load(d Drawing, res *state.Resolver) ([]*state.Element, error) {
	data, err := os.ReadFile(d.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load drawing %s: %w", d.Name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if res == nil {
		res = &state.Resolver{}
	}
	elements, err := state.Decode(data, true, res)
	if err != nil && elements == nil {
		return nil, fmt.Errorf("load drawing %s: %w", d.Name, err)
	}
	logging.Logger().Info("drawing loaded", "name", d.Name, "elements", len(elements))
	return elements, err
}

// HasChanged reports whether elements differ from what d holds on disk.
func (f *Files) HasChanged(d Drawing, elements []*state.Element) bool {
	data, err := state.Encode(elements)
	if err != nil {
		return true
	}
	saved, err := os.ReadFile(d.Path)
	if err != nil {
		return len(elements) > 0
	}
	return !bytes.Equal(data, saved)
}

// Delete removes d.
func (f *Files) Delete(d Drawing) error {
	if err := os.Remove(d.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete drawing %s: %w", d.Name, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
