package ruledata

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAttributes(t *testing.T) {
	r := New()
	r.Set("id", "north")
	r.SetBool("reversed", false)
	r.SetInt("next_teleport_group_id", 7)

	assert.True(t, r.Has("id"))
	assert.False(t, r.Has("missing"))
	assert.Equal(t, "north", r.Str("id"))
	assert.Equal(t, "no", r.Str("reversed"))
	assert.Equal(t, 7, r.Int("next_teleport_group_id", 0))
	assert.Equal(t, []string{"id", "next_teleport_group_id", "reversed"}, r.Keys())

	r.Unset("id")
	assert.False(t, r.Has("id"))
}

func TestRecordBool(t *testing.T) {
	tests := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"yes", false, true},
		{"true", false, true},
		{"On", false, true},
		{"1", false, true},
		{"no", true, false},
		{"false", true, false},
		{"off", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := FromMap(map[string]string{"flag": tt.value})
			assert.Equal(t, tt.expected, r.Bool("flag", tt.def))
		})
	}

	assert.True(t, New().Bool("absent", true))
	assert.Equal(t, 3, FromMap(map[string]string{"n": "x"}).Int("n", 3))
}

func TestRecordChildren(t *testing.T) {
	r := New()
	a := r.AddChild("tunnel", FromMap(map[string]string{"id": "a"}))
	r.AddChild("side", nil)
	b := r.AddChild("tunnel", FromMap(map[string]string{"id": "b"}))

	assert.Equal(t, 2, r.ChildCount("tunnel"))
	assert.Equal(t, 1, r.ChildCount("side"))
	assert.Equal(t, 0, r.ChildCount("unit"))
	assert.Equal(t, []string{"tunnel", "side"}, r.ChildKeys())

	got, ok := r.Child("tunnel", 1)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, []*Record{a, b}, r.Children("tunnel"))

	_, ok = r.Child("tunnel", 2)
	assert.False(t, ok)

	_, err := r.MandatoryChild("unit", 0)
	assert.True(t, errors.Is(err, ErrMissingChild))

	assert.True(t, r.ChildOrEmpty("unit").Empty())
	assert.Same(t, a, r.ChildOrEmpty("tunnel"))

	r.RemoveChildren("tunnel")
	assert.Equal(t, 0, r.ChildCount("tunnel"))
	assert.Equal(t, 1, r.ChildCount("side"))
}

func TestRecordCloneIsDeep(t *testing.T) {
	r := FromMap(map[string]string{"id": "x"})
	r.AddChild("source", FromMap(map[string]string{"x": "1"}))

	c := r.Clone()
	require.True(t, r.Equal(c))

	c.Set("id", "y")
	c.ChildOrEmpty("source").Set("x", "2")

	assert.Equal(t, "x", r.Str("id"))
	assert.Equal(t, "1", r.ChildOrEmpty("source").Str("x"))
	assert.False(t, r.Equal(c))
}

func TestParseAndMarshal(t *testing.T) {
	doc := `
next_teleport_group_id: 2
tunnel:
  - id: "1"
    saved: yes
    reversed: no
    source:
      x: 1-3
      y: 1
    target:
      terrain: [cave, village]
    filter: {}
  - id: "1-__REVERSED__"
    saved: yes
    reversed: yes
    source: {x: 1}
    target: {x: 2}
    filter: {}
`
	r, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 2, r.Int("next_teleport_group_id", 0))
	require.Equal(t, 2, r.ChildCount("tunnel"))

	first := r.Children("tunnel")[0]
	assert.True(t, first.Bool("saved", false))
	assert.Equal(t, "1-3", first.ChildOrEmpty("source").Str("x"))
	assert.Equal(t, "cave,village", first.ChildOrEmpty("target").Str("terrain"))
	assert.Equal(t, 1, first.ChildCount("filter"))

	out, err := Marshal(r)
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, r.Equal(again), "round trip should preserve the record:\n%s", out)
}

func TestParseRejectsNonMapping(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	assert.True(t, errors.Is(err, ErrDecode))

	_, err = Parse([]byte("key: [1, {a: b}, [x]]"))
	assert.True(t, errors.Is(err, ErrDecode))

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.yaml")

	r := New()
	r.Set("map_data", "..V\n.C.")
	r.AddChild("side", FromMap(map[string]string{"side": "1"}))
	require.NoError(t, Save(path, r))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, r.Equal(loaded))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
