package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNote(t *testing.T) {
	n := NewNote("alice", "groceries", "milk", nil)

	assert.NotEmpty(t, n.NoteID)
	assert.Equal(t, 1, n.Version)
	assert.Equal(t, []string{}, n.Tags)
	assert.True(t, n.IsOwnedBy("alice"))
	assert.False(t, n.IsOwnedBy("bob"))
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
}

func TestNote_Update(t *testing.T) {
	tags := []string{"home"}
	n := NewNote("alice", "groceries", "milk", tags)

	require.NoError(t, n.Update("shopping", "milk, eggs", []string{"home", "weekly"}, 1))
	assert.Equal(t, "shopping", n.Title)
	assert.Equal(t, 2, n.Version)
	assert.Equal(t, []string{"home", "weekly"}, n.Tags)
	assert.Equal(t, []string{"home"}, tags)

	err := n.Update("stale", "", nil, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, "shopping", n.Title)
	assert.Equal(t, 2, n.Version)
}

func TestNote_Archive(t *testing.T) {
	n := NewNote("alice", "groceries", "", nil)

	require.NoError(t, n.Archive())
	assert.True(t, n.Archived)
	assert.Equal(t, 2, n.Version)

	assert.ErrorIs(t, n.Archive(), ErrArchived)
	assert.ErrorIs(t, n.Update("again", "", nil, 2), ErrArchived)
	assert.Equal(t, 2, n.Version)
}
