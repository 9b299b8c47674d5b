package habit

// BadgeSpec names one threshold award.
type BadgeSpec struct {
	Type        string
	Name        string
	Description string
}

// earnedBadges returns the badges unlocked by this exact streak and total
// completion count. Thresholds match by equality, so a counter that jumps
// past a threshold never awards it retroactively.
func earnedBadges(streak, totalCompletions int) []BadgeSpec {
	var out []BadgeSpec

	switch streak {
	case 7:
		out = append(out, BadgeSpec{BadgeStreak, "Week Warrior", "Completed habit for 7 consecutive days"})
	case 30:
		out = append(out, BadgeSpec{BadgeStreak, "Monthly Master", "Completed habit for 30 consecutive days"})
	case 100:
		out = append(out, BadgeSpec{BadgeStreak, "Century Champion", "Completed habit for 100 consecutive days"})
	}

	switch totalCompletions {
	case 10:
		out = append(out, BadgeSpec{BadgeConsistency, "Dedicated Beginner", "Completed habit 10 times"})
	case 50:
		out = append(out, BadgeSpec{BadgeConsistency, "Habit Enthusiast", "Completed habit 50 times"})
	}

	return out
}
