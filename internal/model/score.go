package model

import "math"

// ScoreResult is the outcome of grading one attempt.
type ScoreResult struct {
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`

	// Correctness holds a verdict per answered in-key question index.
	// Indices the user never answered are absent.
	Correctness map[int]bool `json:"-"`
}

// ScoreAnswers grades submitted answers against the canonical answer key.
// Unanswered questions earn no credit. Submitted indices outside the key are
// ignored rather than rejected, so a stray index can never fail a submission.
// Pure: no I/O, identical output for identical input.
func ScoreAnswers(key map[int]string, answers []AnswerRecord) ScoreResult {
	byIndex := make(map[int]string, len(answers))
	for _, ans := range answers {
		byIndex[ans.QuestionIndex] = ans.SelectedAnswer
	}

	res := ScoreResult{
		TotalQuestions: len(key),
		Correctness:    make(map[int]bool, len(answers)),
	}
	for index, correct := range key {
		selected, ok := byIndex[index]
		if !ok {
			continue
		}
		if selected == correct {
			res.Score++
			res.Correctness[index] = true
		} else {
			res.Correctness[index] = false
		}
	}

	if res.TotalQuestions > 0 {
		res.Percentage = Round2(100 * float64(res.Score) / float64(res.TotalQuestions))
	}
	return res
}

// Round2 rounds to two decimal places for display and storage.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
