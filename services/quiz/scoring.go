// Package quiz scores multiple choice answers and summarises attempts.
package quiz

import "math"

// Result is the outcome of one MCQ submission
type Result struct {
	Score     int    `json:"score"`
	MaxScore  int    `json:"max_score"`
	IsCorrect bool   `json:"is_correct"`
	Selected  []uint `json:"selected"`
}

// Score grades a selection against the correct option ids. Repeated ids in
// the selection count once. The answer is correct only when the selection is
// exactly the correct set.
func Score(correct []uint, selected []uint) Result {
	correctSet := make(map[uint]bool, len(correct))
	for _, id := range correct {
		correctSet[id] = true
	}

	seen := make(map[uint]bool, len(selected))
	unique := make([]uint, 0, len(selected))
	score := 0
	for _, id := range selected {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
		if correctSet[id] {
			score++
		}
	}

	return Result{
		Score:     score,
		MaxScore:  len(correctSet),
		IsCorrect: len(correctSet) > 0 && score == len(correctSet) && len(unique) == len(correctSet),
		Selected:  unique,
	}
}

// Attempt is the part of a stored attempt the summary needs
type Attempt struct {
	Score     int
	MaxScore  int
	IsCorrect bool
}

// Summary aggregates a learner's attempts
type Summary struct {
	TotalAttempts   int     `json:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	AccuracyPercent float64 `json:"accuracy_percent"`
	AverageScorePct float64 `json:"average_score_percent"`
}

// Summarize computes accuracy and average score percentages. Attempts with
// no correct options are left out of the score average.
func Summarize(attempts []Attempt) Summary {
	s := Summary{TotalAttempts: len(attempts)}
	var pctSum float64
	scored := 0
	for _, a := range attempts {
		if a.IsCorrect {
			s.CorrectAttempts++
		}
		if a.MaxScore > 0 {
			pctSum += float64(a.Score) / float64(a.MaxScore) * 100
			scored++
		}
	}
	if s.TotalAttempts > 0 {
		s.AccuracyPercent = roundTo2(float64(s.CorrectAttempts) / float64(s.TotalAttempts) * 100)
	}
	if scored > 0 {
		s.AverageScorePct = roundTo2(pctSum / float64(scored))
	}
	return s
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
