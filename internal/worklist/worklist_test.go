package worklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorklistIsLIFO(t *testing.T) {
	w := New[string, string]()
	w.Push("a", 0)
	w.Push("b", 1)
	w.Push("c", 1)
	require.Equal(t, 3, w.Len())

	var got []string
	for {
		e, ok := w.Pop()
		if !ok {
			break
		}
		got = append(got, e.Item)
	}

	assert.Equal(t, []string{"c", "b", "a"}, got)
	assert.Equal(t, 0, w.Len())
}

func TestWorklistKeepsDepth(t *testing.T) {
	w := New[string, string]()
	w.Push("root", 0)
	w.Push("child", 1)

	e, ok := w.Pop()
	require.True(t, ok)
	assert.Equal(t, Entry[string]{Item: "child", Depth: 1}, e)
}

func TestWorklistPopEmpty(t *testing.T) {
	w := New[int, int]()
	e, ok := w.Pop()
	assert.False(t, ok)
	assert.Zero(t, e)
}

func TestWorklistVisit(t *testing.T) {
	w := New[string, string]()

	assert.False(t, w.Seen("x"))
	assert.True(t, w.Visit("x"))
	assert.False(t, w.Visit("x"))
	assert.True(t, w.Seen("x"))
	assert.True(t, w.Visit("y"))
	assert.Equal(t, 2, w.VisitedCount())
}
