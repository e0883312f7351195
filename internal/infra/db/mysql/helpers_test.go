package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitOffset(t *testing.T) {
	cases := []struct {
		page, size    int
		limit, offset int
	}{
		{0, 0, 20, 0},
		{1, 10, 10, 0},
		{3, 10, 10, 20},
		{2, 500, 100, 100},
		{-4, -1, 20, 0},
	}
	for _, c := range cases {
		limit, offset := limitOffset(c.page, c.size)
		assert.Equal(t, c.limit, limit, "page=%d size=%d", c.page, c.size)
		assert.Equal(t, c.offset, offset, "page=%d size=%d", c.page, c.size)
	}
}

func TestDashRoundTrip(t *testing.T) {
	assert.Equal(t, "-", stringOrDash("   "))
	assert.Equal(t, "", dashToEmpty(stringOrDash("")))
	assert.Equal(t, "lease.txt", dashToEmpty(stringOrDash("lease.txt")))
}
