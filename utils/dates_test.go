package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateStripsTimeOfDay(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	require.NoError(t, InitializeDateLocation())

	in := time.Date(2026, time.March, 7, 15, 42, 13, 999, time.UTC)
	got := NormalizeDate(in)

	assert.Equal(t, time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC), got)
}

func TestTodayIsMidnight(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	require.NoError(t, InitializeDateLocation())

	today := Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, 0, today.Second())
}
