package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stroke(t *testing.T, pts ...geom.Point) *state.Element {
	t.Helper()
	el, err := state.NewElement(state.Attrs{
		Shape:  state.Freehand,
		Color:  state.MustColor("#00ff00"),
		Line:   state.Line{Width: 3, Join: state.JoinRound, Cap: state.CapRound},
		Points: pts,
	})
	require.NoError(t, err)
	return el
}

func TestSaveAndLoad(t *testing.T) {
	files := New(t.TempDir() + "/drawings")
	d := files.Persistent()
	assert.True(t, d.Persistent)

	els, err := files.Load(d, nil)
	require.NoError(t, err)
	assert.Empty(t, els)

	want := []*state.Element{stroke(t, geom.Pt(1, 2), geom.Pt(3, 4)), stroke(t, geom.Pt(5, 6), geom.Pt(7, 8))}
	require.NoError(t, files.Save(d, want))

	got, err := files.Load(d, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[1].Points, got[1].Points)
	assert.Same(t, got[0].Color, got[1].Color, "equal colors share one handle")
	assert.False(t, files.HasChanged(d, got))
	assert.True(t, files.HasChanged(d, got[:1]))
}

func TestSaveEmptyDrawing(t *testing.T) {
	files := New(t.TempDir())
	d := files.Persistent()
	require.NoError(t, files.Save(d, nil))
	data, err := os.ReadFile(d.Path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.False(t, files.HasChanged(d, nil))
}

func TestLoadSkipsInvalidRecords(t *testing.T) {
	files := New(t.TempDir())
	d, err := files.Named("broken")
	require.NoError(t, err)
	data := `[
  {"shape":"hexagon","color":"red","points":[[0,0],[1,1]]},

  {"shape":"freehand","color":"red","line":{"lineWidth":2,"lineJoin":"round","lineCap":"round"},"points":[[0,0],[1,1]]}
]`
	require.NoError(t, os.WriteFile(d.Path, []byte(data), 0644))

	els, err := files.Load(d, nil)
	require.Error(t, err)
	var verr *state.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, els, 1)

	require.NoError(t, os.WriteFile(d.Path, []byte("{"), 0644))
	els, err = files.Load(d, nil)
	assert.Error(t, err)
	assert.Nil(t, els)
}

func TestNamed(t *testing.T) {
	files := New(t.TempDir())
	d, err := files.Named(" notes.json ")
	require.NoError(t, err)
	assert.Equal(t, "notes", d.Name)
	assert.Equal(t, "notes.json", filepath.Base(d.Path))

	for _, bad := range []string{"", "  ", "persistent", "a/b", `a\b`, ".."} {
		_, err := files.Named(bad)
		assert.Error(t, err, bad)
	}
}

func TestDatedNamesDoNotCollide(t *testing.T) {
	files := New(t.TempDir())
	files.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	first := files.Dated()
	assert.Equal(t, "2024-03-01 09.30.00", first.Name)
	require.NoError(t, files.Save(first, nil))

	second := files.Dated()
	assert.NotEqual(t, first.Path, second.Path)
	assert.Contains(t, second.Name, first.Name)
}

func TestBrowsing(t *testing.T) {
	files := New(t.TempDir())
	base := time.Now().Add(-time.Hour)
	var saved []Drawing
	for i, name := range []string{"old", "middle", "new"} {
		d, err := files.Named(name)
		require.NoError(t, err)
		require.NoError(t, files.Save(d, nil))
		mt := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(d.Path, mt, mt))
		saved = append(saved, d)
	}
	require.NoError(t, files.Save(files.Persistent(), nil))

	list, err := files.List()
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"new", "middle", "old"}, names)

	d, ok := files.Previous(nil)
	require.True(t, ok)
	assert.Equal(t, "new", d.Name)
	d, ok = files.Previous(&d)
	require.True(t, ok)
	assert.Equal(t, "middle", d.Name)
	_, ok = files.Previous(&saved[0])
	assert.False(t, ok)

	d, ok = files.Next(&saved[0])
	require.True(t, ok)
	assert.Equal(t, "middle", d.Name)
	_, ok = files.Next(&saved[2])
	assert.False(t, ok)
	_, ok = files.Next(nil)
	assert.False(t, ok)

	require.NoError(t, files.Delete(saved[1]))
	list, err = files.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListMissingDirectory(t *testing.T) {
	files := New(t.TempDir() + "/nope")
	list, err := files.List()
	assert.NoError(t, err)
	assert.Empty(t, list)
}
