package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minutes(v int) *int { return &v }

func TestHasMeetingTimes(t *testing.T) {
	timed := SectionCandidate{MeetingDays: "MWF", StartMinute: minutes(540), EndMinute: minutes(590)}
	assert.True(t, timed.HasMeetingTimes())

	assert.False(t, SectionCandidate{StartMinute: minutes(540), EndMinute: minutes(590)}.HasMeetingTimes())
	assert.False(t, SectionCandidate{MeetingDays: "MWF", EndMinute: minutes(590)}.HasMeetingTimes())
	assert.False(t, SectionCandidate{}.HasMeetingTimes())
}

func TestBlockedSlotIntersects(t *testing.T) {
	section := SectionCandidate{MeetingDays: "MW", StartMinute: minutes(540), EndMinute: minutes(590)}

	assert.True(t, BlockedSlot{Day: "M", StartMinute: 560, EndMinute: 620}.Intersects(section))
	assert.False(t, BlockedSlot{Day: "T", StartMinute: 560, EndMinute: 620}.Intersects(section))
	// Half-open: a slot starting exactly when the section ends is clear.
	assert.False(t, BlockedSlot{Day: "M", StartMinute: 590, EndMinute: 650}.Intersects(section))
	assert.False(t, BlockedSlot{Day: "M", StartMinute: 480, EndMinute: 540}.Intersects(section))

	floating := SectionCandidate{}
	assert.False(t, BlockedSlot{Day: "M", StartMinute: 0, EndMinute: 1440}.Intersects(floating))
}

func TestParseSortMode(t *testing.T) {
	mode, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortByRating, mode)

	mode, err = ParseSortMode("latest-end")
	require.NoError(t, err)
	assert.Equal(t, SortByLatestEnd, mode)

	_, err = ParseSortMode("alphabetical")
	require.Error(t, err)
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "09:00:00", ClockString(540))
	assert.Equal(t, "00:00:00", ClockString(0))
	assert.Equal(t, "13:10:00", ClockString(790))
}
