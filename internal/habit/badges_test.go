package habit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarnedBadgesStreakThresholds(t *testing.T) {
	for _, streak := range []int{1, 6, 8, 29, 31, 99, 101} {
		assert.Empty(t, earnedBadges(streak, 3), "streak %d must not award", streak)
	}

	got := earnedBadges(7, 3)
	require.Len(t, got, 1)
	assert.Equal(t, "Week Warrior", got[0].Name)
	assert.Equal(t, BadgeStreak, got[0].Type)

	assert.Equal(t, "Monthly Master", earnedBadges(30, 3)[0].Name)
	assert.Equal(t, "Century Champion", earnedBadges(100, 3)[0].Name)
}

func TestEarnedBadgesConsistencyThresholds(t *testing.T) {
	got := earnedBadges(2, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "Dedicated Beginner", got[0].Name)
	assert.Equal(t, BadgeConsistency, got[0].Type)

	assert.Equal(t, "Habit Enthusiast", earnedBadges(2, 50)[0].Name)
	assert.Empty(t, earnedBadges(2, 11))
	assert.Empty(t, earnedBadges(2, 49))
}

func TestEarnedBadgesBothAtOnce(t *testing.T) {
	// A 7-day streak landing on the 10th completion awards both.
	got := earnedBadges(7, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "Week Warrior", got[0].Name)
	assert.Equal(t, "Dedicated Beginner", got[1].Name)
}
