package models

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestOrderSongs(t *testing.T) {
	rows := OrderSongs("sl-1", []string{"a", "b", "c"})

	assert.Equal(t, []SetlistSong{
		{SetlistID: "sl-1", SongID: "a", SongOrder: 1},
		{SetlistID: "sl-1", SongID: "b", SongOrder: 2},
		{SetlistID: "sl-1", SongID: "c", SongOrder: 3},
	}, rows)

	assert.Empty(t, OrderSongs("sl-1", nil))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAdmin))
	assert.True(t, IsValidRole(RoleMember))
	assert.False(t, IsValidRole("owner"))
	assert.False(t, IsValidRole(""))
}
