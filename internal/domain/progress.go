package domain

import (
	"sort"
	"time"
)

// ProgressSummary holds the KPIs shown on a client's progress page.
type ProgressSummary struct {
	ClientID           string     `json:"clientId"`
	SessionCount       int        `json:"sessionCount"`
	TotalSets          int        `json:"totalSets"`
	TotalVolumeKg      float64    `json:"totalVolumeKg"`
	SessionsLast30Days int        `json:"sessionsLast30Days"`
	CurrentWeekStreak  int        `json:"currentWeekStreak"`
	LastSessionAt      *time.Time `json:"lastSessionAt,omitempty"`
}

// PersonalRecord is the heaviest set logged for one exercise.
type PersonalRecord struct {
	ExerciseID   string    `json:"exerciseId,omitempty"`
	ExerciseName string    `json:"exerciseName"`
	MaxWeightKg  float64   `json:"maxWeightKg"`
	RepsAtMax    int       `json:"repsAtMax"`
	Estimated1RM float64   `json:"estimated1rm"`
	AchievedAt   time.Time `json:"achievedAt"`
	SessionID    string    `json:"sessionId"`
}

// Epley1RM estimates a one-rep max from a set.
func Epley1RM(weightKg float64, reps int) float64 {
	if reps <= 1 {
		return weightKg
	}
	return weightKg * (1 + float64(reps)/30)
}

// SummarizeProgress derives KPIs from a client's logged sessions.
func SummarizeProgress(clientID string, sessions []WorkoutSession, now time.Time) ProgressSummary {
	summary := ProgressSummary{ClientID: clientID, SessionCount: len(sessions)}
	weeks := make(map[int]bool)
	cutoff := now.AddDate(0, 0, -30)

	for i := range sessions {
		s := &sessions[i]
		summary.TotalVolumeKg += s.Volume()
		for _, e := range s.Entries {
			summary.TotalSets += len(e.Sets)
		}
		if s.PerformedAt.After(cutoff) && !s.PerformedAt.After(now) {
			summary.SessionsLast30Days++
		}
		if summary.LastSessionAt == nil || s.PerformedAt.After(*summary.LastSessionAt) {
			t := s.PerformedAt
			summary.LastSessionAt = &t
		}
		weeks[weekIndex(s.PerformedAt)] = true
	}

	// Streak counts back from the current week; an empty current week does not
	// break a streak that ended last week.
	week := weekIndex(now)
	if !weeks[week] {
		week--
	}
	for weeks[week] {
		summary.CurrentWeekStreak++
		week--
	}
	return summary
}

// weekIndex numbers weeks since the Unix epoch, weeks starting Monday UTC.
func weekIndex(t time.Time) int {
	days := int(t.UTC().Unix() / 86400)
	// 1970-01-01 was a Thursday; shift so Monday starts a week.
	return (days + 3) / 7
}

// PersonalRecords returns the heaviest set per exercise, ordered by exercise name.
// Ties on weight are broken by more reps, then by the earlier session.
func PersonalRecords(sessions []WorkoutSession) []PersonalRecord {
	best := make(map[string]*PersonalRecord)
	for i := range sessions {
		s := &sessions[i]
		for _, e := range s.Entries {
			key := e.ExerciseID
			if key == "" {
				key = "name:" + e.ExerciseName
			}
			for _, set := range e.Sets {
				cur, ok := best[key]
				if ok && !betterSet(set, s.PerformedAt, cur) {
					continue
				}
				best[key] = &PersonalRecord{
					ExerciseID:   e.ExerciseID,
					ExerciseName: e.ExerciseName,
					MaxWeightKg:  set.WeightKg,
					RepsAtMax:    set.Reps,
					Estimated1RM: Epley1RM(set.WeightKg, set.Reps),
					AchievedAt:   s.PerformedAt,
					SessionID:    s.ID,
				}
			}
		}
	}

	out := make([]PersonalRecord, 0, len(best))
	for _, pr := range best {
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExerciseName != out[j].ExerciseName {
			return out[i].ExerciseName < out[j].ExerciseName
		}
		return out[i].ExerciseID < out[j].ExerciseID
	})
	return out
}

func betterSet(set SetEntry, at time.Time, cur *PersonalRecord) bool {
	if set.WeightKg != cur.MaxWeightKg {
		return set.WeightKg > cur.MaxWeightKg
	}
	if set.Reps != cur.RepsAtMax {
		return set.Reps > cur.RepsAtMax
	}
	return at.Before(cur.AchievedAt)
}
