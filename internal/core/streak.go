package core

import (
	"slices"
	"strings"
	"time"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

type (
	// Habit is a tracked daily habit. Completions holds day-indices relative
	// to CreatedAt and may be unsorted or contain duplicates.
	Habit struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		CreatedAt   time.Time `json:"created_at"`
		Completions []int     `json:"completions"`
	}

	// HabitStatus is a habit evaluated at a given instant.
	HabitStatus struct {
		Habit
		Today     int  `json:"today"`
		DoneToday bool `json:"done_today"`
		Streak    int  `json:"streak"`
	}
)

func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyName
	}
	if len(h.Name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

// Status evaluates the habit at now.
func (h Habit) Status(now time.Time) HabitStatus {
	today := DayIndex(h.CreatedAt, now)
	return HabitStatus{
		Habit:     h,
		Today:     today,
		DoneToday: slices.Contains(h.Completions, today),
		Streak:    StreakDays(h.Completions, h.CreatedAt, now),
	}
}

// DayIndex returns the number of whole days elapsed between createdAt and at.
// Elapsed time is measured in milliseconds and floored, so an instant before
// createdAt yields a negative index.
func DayIndex(createdAt, at time.Time) int {
	ms := at.UnixMilli() - createdAt.UnixMilli()
	d := ms / dayMillis
	if ms%dayMillis != 0 && ms < 0 {
		d--
	}
	return int(d)
}

// StreakDays returns the length of the current run of consecutive completed
// days ending today or yesterday. Indices after today are ignored. Counting
// stops at the first gap; a repeated index counts as a gap.
func StreakDays(completions []int, createdAt, now time.Time) int {
	if len(completions) == 0 {
		return 0
	}
	today := DayIndex(createdAt, now)

	days := make([]int, 0, len(completions))
	for _, d := range completions {
		if d <= today {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return 0
	}
	slices.Sort(days)
	slices.Reverse(days)

	if days[0] < today-1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i] != days[i-1]-1 {
			break
		}
		streak++
	}
	return streak
}
