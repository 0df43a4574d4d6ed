package domain

import (
	"testing"

	"membersearch/internal/core/paging"
	perr "membersearch/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequest(t *testing.T) {
	t.Parallel()

	i := func(v int) *int { return &v }
	lim := Limits{DefaultSize: 20, MaxSize: 100}

	r, err := PageRequest(PageInput{}, lim)
	require.NoError(t, err)
	assert.Equal(t, paging.Request{Offset: 0, Limit: 20}, r)

	r, err = PageRequest(PageInput{Page: i(1), Size: i(1000)}, lim)
	require.NoError(t, err)
	assert.Equal(t, int64(100), r.Offset)
	assert.Equal(t, 100, r.Limit)

	r, err = PageRequest(PageInput{Limit: i(3)}, Limits{})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Limit)

	_, err = PageRequest(PageInput{Page: i(-1)}, lim)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	s, err := ParseSort([]string{"teamName,DESC", " age "})
	require.NoError(t, err)
	assert.Equal(t, paging.By(
		paging.Order{Property: "teamName", Direction: paging.Desc},
		paging.Order{Property: "age", Direction: paging.Asc},
	), s)

	s, err = ParseSort(nil)
	require.NoError(t, err)
	assert.True(t, s.Unsorted())

	_, err = ParseSort([]string{"age,up"})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}

func TestLimits_Normalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultLimits, Limits{}.Normalize())
	assert.Equal(t, Limits{DefaultSize: 5, MaxSize: 5}, Limits{DefaultSize: 50, MaxSize: 5}.Normalize())
}
