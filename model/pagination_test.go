package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	t.Run("25 items over pages of 10", func(t *testing.T) {
		p := Paginate(1, 10, 25)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, 25, p.TotalItems)
		assert.False(t, p.HasPrev)
		assert.True(t, p.HasNext)
		assert.Equal(t, 0, p.Offset())

		p = Paginate(3, 10, 25)
		assert.True(t, p.HasPrev)
		assert.False(t, p.HasNext)
		assert.Equal(t, 20, p.Offset())
	})

	t.Run("exact multiple", func(t *testing.T) {
		p := Paginate(2, 10, 20)
		assert.Equal(t, 2, p.TotalPages)
		assert.False(t, p.HasNext)
	})

	t.Run("no items", func(t *testing.T) {
		p := Paginate(1, 10, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})

	t.Run("clamps page and limit", func(t *testing.T) {
		p := Paginate(0, 0, 5)
		assert.Equal(t, 1, p.CurrentPage)
		assert.Equal(t, 1, p.ItemsPerPage)
		assert.Equal(t, 5, p.TotalPages)
	})
}
