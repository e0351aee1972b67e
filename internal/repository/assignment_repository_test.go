package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffAssignments_Disjoint(t *testing.T) {
	toAdd, toRemove := DiffAssignments([]string{"a", "b"}, []string{"c", "d"})
	assert.Equal(t, []string{"c", "d"}, toAdd)
	assert.Equal(t, []string{"a", "b"}, toRemove)
}

func TestDiffAssignments_Overlap(t *testing.T) {
	toAdd, toRemove := DiffAssignments([]string{"a", "b", "c"}, []string{"b", "c", "d"})
	assert.Equal(t, []string{"d"}, toAdd)
	assert.Equal(t, []string{"a"}, toRemove)
}

func TestDiffAssignments_NoChange(t *testing.T) {
	toAdd, toRemove := DiffAssignments([]string{"a", "b"}, []string{"a", "b"})
	assert.Empty(t, toAdd)
	assert.Empty(t, toRemove)
}

func TestDiffAssignments_EmptyDesiredRemovesAll(t *testing.T) {
	toAdd, toRemove := DiffAssignments([]string{"a", "b"}, nil)
	assert.Empty(t, toAdd)
	assert.Equal(t, []string{"a", "b"}, toRemove)
}

func TestDiffAssignments_EmptyExistingAddsAll(t *testing.T) {
	toAdd, toRemove := DiffAssignments(nil, []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, toAdd)
	assert.Empty(t, toRemove)
}

func TestDiffAssignments_DuplicatesCollapse(t *testing.T) {
	toAdd, toRemove := DiffAssignments([]string{"a"}, []string{"b", "b", "a", "b"})
	assert.Equal(t, []string{"b"}, toAdd)
	assert.Empty(t, toRemove)
}

func TestDedupe_PreservesFirstAppearanceOrder(t *testing.T) {
	assert.Equal(t, []string{"c", "a", "b"}, dedupe([]string{"c", "a", "c", "b", "a"}))
	assert.Empty(t, dedupe(nil))
}
