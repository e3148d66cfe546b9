package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/models"
)

func rowFor(date string) models.WeekRow {
	return models.WeekRow{Date: date}
}

func TestGroupByWeekOpensGroupOnWeekChange(t *testing.T) {
	t.Setenv("SCHOOL_YEAR_START", "2024-09-02")

	dates := []string{"2024-09-02", "2024-09-03", "2024-09-09", "2024-09-16"}
	weeks := groupByWeek(dates, rowFor)

	require.Len(t, weeks, 3)

	assert.Equal(t, 3, weeks[0].Week)
	require.Len(t, weeks[0].Rows, 1)
	assert.Equal(t, "2024-09-16", weeks[0].Rows[0].Date)

	assert.Equal(t, 2, weeks[1].Week)

	// week 1 holds both start-week dates, newest first
	assert.Equal(t, 1, weeks[2].Week)
	require.Len(t, weeks[2].Rows, 2)
	assert.Equal(t, "2024-09-03", weeks[2].Rows[0].Date)
	assert.Equal(t, "2024-09-02", weeks[2].Rows[1].Date)
}

func TestGroupByWeekSkipsBadDates(t *testing.T) {
	t.Setenv("SCHOOL_YEAR_START", "2024-09-02")

	weeks := groupByWeek([]string{"2024-09-02", "garbage"}, rowFor)

	require.Len(t, weeks, 1)
	assert.Equal(t, 1, weeks[0].Week)
	assert.Len(t, weeks[0].Rows, 1)
}

func TestGroupByWeekEmpty(t *testing.T) {
	assert.Empty(t, groupByWeek(nil, rowFor))
}
