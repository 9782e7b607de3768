package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestFilter_HarnessStrings(t *testing.T) {
	t.Run("no methods yields the class", func(t *testing.T) {
		f, err := NewTestFilter("com.Foo")
		require.NoError(t, err)
		assert.Equal(t, []string{"com.Foo"}, f.HarnessStrings())
	})

	t.Run("one entry per method", func(t *testing.T) {
		f, err := NewTestFilter("com.Foo", "baz", "bar")
		require.NoError(t, err)
		assert.Equal(t, []string{"com.Foo#bar", "com.Foo#baz"}, f.HarnessStrings())
		assert.Equal(t, "com.Foo#bar,com.Foo#baz", f.String())
	})

	t.Run("duplicate methods collapse", func(t *testing.T) {
		f, err := NewTestFilter("com.Foo", "bar", "bar")
		require.NoError(t, err)
		assert.Len(t, f.HarnessStrings(), 1)
	})

	t.Run("cardinality matches methods", func(t *testing.T) {
		cases := [][]string{nil, {"a"}, {"a", "b"}, {"a", "b", "c", "d"}}
		for _, methods := range cases {
			f, err := NewTestFilter("X", methods...)
			require.NoError(t, err)
			out := f.HarnessStrings()
			if len(methods) == 0 {
				assert.Equal(t, []string{"X"}, out)
				continue
			}
			assert.Len(t, out, len(methods))
			for _, s := range out {
				assert.True(t, strings.HasPrefix(s, "X#"), s)
			}
		}
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := NewTestFilter("")
		assert.Error(t, err)
		_, err = NewTestFilter("com.Foo", "")
		assert.Error(t, err)
	})
}

func TestTestInfo(t *testing.T) {
	t.Run("requires name and runner", func(t *testing.T) {
		_, err := NewTestInfo("", "R")
		assert.Error(t, err)
		_, err = NewTestInfo("T", "")
		assert.Error(t, err)
	})

	t.Run("data maps are not shared", func(t *testing.T) {
		a := MustTestInfo("T", "R")
		b := MustTestInfo("T", "R")
		a.Data["k"] = 1
		assert.Empty(t, b.Data)
		assert.NotSame(t, a, b)
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("merge unions targets and prefers later data", func(t *testing.T) {
		a := MustTestInfo("T", "R", "x", "y")
		a.Data["k"] = "first"
		a.Data["only-a"] = true
		b := MustTestInfo("T", "R", "y", "z")
		b.Data["k"] = "second"

		a.Merge(b)
		assert.Equal(t, []string{"x", "y", "z"}, a.SortedBuildTargets())
		assert.Equal(t, "second", a.Data["k"])
		assert.Equal(t, true, a.Data["only-a"])
		assert.True(t, a.HasBuildTarget("z"))
	})

	t.Run("clone copies sets", func(t *testing.T) {
		a := MustTestInfo("T", "R", "x")
		c := a.Clone()
		c.BuildTargets["y"] = struct{}{}
		c.Data["k"] = 1
		assert.False(t, a.HasBuildTarget("y"))
		assert.Empty(t, a.Data)
	})
}
