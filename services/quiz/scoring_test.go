package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		correct  []uint
		selected []uint
		want     Result
	}{
		{"single correct", []uint{2}, []uint{2}, Result{Score: 1, MaxScore: 1, IsCorrect: true, Selected: []uint{2}}},
		{"single wrong", []uint{2}, []uint{3}, Result{Score: 0, MaxScore: 1, Selected: []uint{3}}},
		{"multi exact", []uint{1, 4}, []uint{4, 1}, Result{Score: 2, MaxScore: 2, IsCorrect: true, Selected: []uint{4, 1}}},
		{"multi partial", []uint{1, 4}, []uint{1}, Result{Score: 1, MaxScore: 2, Selected: []uint{1}}},
		{"extra wrong pick", []uint{1, 4}, []uint{1, 4, 5}, Result{Score: 2, MaxScore: 2, Selected: []uint{1, 4, 5}}},
		{"duplicates ignored", []uint{1, 4}, []uint{1, 1, 4}, Result{Score: 2, MaxScore: 2, IsCorrect: true, Selected: []uint{1, 4}}},
		{"duplicate cannot pad", []uint{1, 4}, []uint{1, 1}, Result{Score: 1, MaxScore: 2, Selected: []uint{1}}},
		{"no correct options", nil, []uint{1}, Result{Score: 0, MaxScore: 0, Selected: []uint{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.correct, tt.selected))
		})
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	s := Summarize([]Attempt{
		{Score: 1, MaxScore: 1, IsCorrect: true},
		{Score: 1, MaxScore: 2},
		{Score: 0, MaxScore: 0},
	})
	assert.Equal(t, 3, s.TotalAttempts)
	assert.Equal(t, 1, s.CorrectAttempts)
	assert.Equal(t, 33.33, s.AccuracyPercent)
	assert.Equal(t, 75.0, s.AverageScorePct)
}
