package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalMidnight(t *testing.T) {
	denver := time.FixedZone("MST", -7*3600)

	// 02:30 UTC on the 15th is still the evening of the 14th in Denver
	now := time.Date(2025, 6, 15, 2, 30, 0, 0, time.UTC)
	midnight := LocalMidnight(now, denver)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, denver), midnight)

	next := NextLocalMidnight(now, denver)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, denver), next)
}

func TestClaimedToday(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	t.Run("nil last claim", func(t *testing.T) {
		assert.False(t, ClaimedToday(nil, now, loc))
	})

	t.Run("claim earlier today", func(t *testing.T) {
		claim := time.Date(2025, 6, 15, 0, 0, 0, 0, loc)
		assert.True(t, ClaimedToday(&claim, now, loc))
	})

	t.Run("claim just before midnight", func(t *testing.T) {
		claim := time.Date(2025, 6, 14, 23, 59, 59, 0, loc)
		assert.False(t, ClaimedToday(&claim, now, loc))
	})

	t.Run("zone changes which day a claim lands on", func(t *testing.T) {
		denver := time.FixedZone("MST", -7*3600)
		// 05:00 UTC on the 15th is 22:00 on the 14th in Denver
		claim := time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC)
		nowDenver := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
		assert.True(t, ClaimedToday(&claim, nowDenver, time.UTC))
		assert.False(t, ClaimedToday(&claim, nowDenver, denver))
	})
}
