package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams_Validate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)

	p = &PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 40, p.Offset())
}

func TestNewPagination(t *testing.T) {
	page := NewPagination(2, 10, 25)

	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)

	assert.False(t, NewPagination(1, 10, 0).HasNext)
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	params := &CursorParams{Cursor: EncodeCursor("abc", at)}

	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "abc", cursor.ID)
	assert.True(t, at.Equal(cursor.CreatedAt))

	_, err = (&CursorParams{Cursor: "%%%"}).DecodeCursor()
	assert.Error(t, err)

	empty, err := (&CursorParams{}).DecodeCursor()
	assert.NoError(t, err)
	assert.Nil(t, empty)
}

func TestNewCursorPaginatedResult(t *testing.T) {
	type row struct {
		id string
		at time.Time
	}
	now := time.Now()
	rows := []row{{"a", now}, {"b", now}, {"c", now}}
	key := func(r row) (string, time.Time) { return r.id, r.at }

	res := NewCursorPaginatedResult(rows, 2, key)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Pagination.HasNext)
	require.NotNil(t, res.Pagination.NextCursor)

	next, err := (&CursorParams{Cursor: *res.Pagination.NextCursor}).DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "b", next.ID)

	last := NewCursorPaginatedResult(rows[:1], 2, key)
	assert.False(t, last.Pagination.HasNext)
	assert.Nil(t, last.Pagination.NextCursor)
}
