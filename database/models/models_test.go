package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostFilenames(t *testing.T) {
	post := &Post{
		FrontImage: &FrontImage{Filename: "front.png"},
		Gallery: []GalleryImage{
			{Filename: "a.jpg"},
			{Filename: "b.jpg"},
		},
	}
	assert.Equal(t, []string{"front.png", "a.jpg", "b.jpg"}, post.Filenames())

	empty := &Post{}
	assert.Empty(t, empty.Filenames())
}

func TestUserHasRole(t *testing.T) {
	u := &User{Roles: []Role{{Name: RoleBasic}}}
	assert.True(t, u.HasRole(RoleBasic))
	assert.False(t, u.HasRole(RoleAdmin))
}

func TestBeforeCreateAssignsID(t *testing.T) {
	p := &Post{}
	assert.NoError(t, p.BeforeCreate(nil))
	assert.Len(t, p.ID, 36)

	fixed := &GalleryImage{ID: "keep-me"}
	assert.NoError(t, fixed.BeforeCreate(nil))
	assert.Equal(t, "keep-me", fixed.ID)
}
