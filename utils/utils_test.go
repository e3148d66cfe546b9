package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := GenerateRandomID()
		require.Len(t, id, 10)
		for _, ch := range id {
			assert.True(t, strings.ContainsRune(idAlphabet, ch),
				"unexpected character %q in id %s", ch, id)
		}
		seen[id] = true
	}
	// not a collision guarantee, but 200 draws repeating would mean the
	// generator is broken
	assert.Greater(t, len(seen), 190)
}

func TestWeekNumber(t *testing.T) {
	start, err := time.Parse("2006-01-02", "2024-09-02")
	require.NoError(t, err)

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	assert.Equal(t, 1, WeekNumber(day("2024-09-02"), start), "start date is week 1")
	assert.Equal(t, 1, WeekNumber(day("2024-09-08"), start), "sixth day after start is still week 1")
	assert.Equal(t, 2, WeekNumber(day("2024-09-09"), start), "seven days later is week 2")
	assert.Equal(t, 5, WeekNumber(day("2024-09-30"), start))
}

func TestSchoolYearStartDefault(t *testing.T) {
	t.Setenv("SCHOOL_YEAR_START", "")
	assert.Equal(t, "2024-09-02", SchoolYearStart().Format("2006-01-02"))

	t.Setenv("SCHOOL_YEAR_START", "not-a-date")
	assert.Equal(t, "2024-09-02", SchoolYearStart().Format("2006-01-02"))

	t.Setenv("SCHOOL_YEAR_START", "2025-09-01")
	assert.Equal(t, "2025-09-01", SchoolYearStart().Format("2006-01-02"))
}

func TestHashAndComparePasswords(t *testing.T) {
	hash, err := HashPassword("sekret123")
	require.NoError(t, err)
	assert.True(t, ComparePasswords(hash, []byte("sekret123")))
	assert.False(t, ComparePasswords(hash, []byte("wrong")))
}
