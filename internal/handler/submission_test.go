package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange_FullDayBounds(t *testing.T) {
	rng := parseDateRange("2025-03-01", "2025-03-05")
	require.NotNil(t, rng)

	gte := rng["$gte"].(time.Time)
	lt := rng["$lt"].(time.Time)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), gte)
	// end_date is inclusive: the bound is the start of the following day.
	assert.Equal(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), lt)
}

func TestParseDateRange_OpenEnded(t *testing.T) {
	rng := parseDateRange("2025-03-01", "")
	require.NotNil(t, rng)
	_, hasLT := rng["$lt"]
	assert.False(t, hasLT)

	rng = parseDateRange("", "2025-03-05")
	require.NotNil(t, rng)
	_, hasGTE := rng["$gte"]
	assert.False(t, hasGTE)
}

func TestParseDateRange_UnparseableIgnored(t *testing.T) {
	assert.Nil(t, parseDateRange("", ""))
	assert.Nil(t, parseDateRange("03/01/2025", "not-a-date"))

	// One good bound survives a bad one.
	rng := parseDateRange("garbage", "2025-12-31")
	require.NotNil(t, rng)
	_, hasLT := rng["$lt"]
	assert.True(t, hasLT)
}
