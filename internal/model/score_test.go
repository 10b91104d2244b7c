package model

import "testing"

func TestScoreAnswers(t *testing.T) {
	key := map[int]string{0: "C", 1: "B", 2: "B"}

	tests := []struct {
		name       string
		answers    []AnswerRecord
		score      int
		percentage float64
	}{
		{
			name: "two of three correct",
			answers: []AnswerRecord{
				{QuestionIndex: 0, SelectedAnswer: "C"},
				{QuestionIndex: 1, SelectedAnswer: "A"},
				{QuestionIndex: 2, SelectedAnswer: "B"},
			},
			score:      2,
			percentage: 66.67,
		},
		{
			name: "all correct",
			answers: []AnswerRecord{
				{QuestionIndex: 0, SelectedAnswer: "C"},
				{QuestionIndex: 1, SelectedAnswer: "B"},
				{QuestionIndex: 2, SelectedAnswer: "B"},
			},
			score:      3,
			percentage: 100,
		},
		{
			name:       "no answers",
			answers:    nil,
			score:      0,
			percentage: 0,
		},
		{
			name: "unanswered questions earn nothing",
			answers: []AnswerRecord{
				{QuestionIndex: 1, SelectedAnswer: "B"},
			},
			score:      1,
			percentage: 33.33,
		},
		{
			name: "answers outside the key are ignored",
			answers: []AnswerRecord{
				{QuestionIndex: 0, SelectedAnswer: "C"},
				{QuestionIndex: 9, SelectedAnswer: "C"},
			},
			score:      1,
			percentage: 33.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreAnswers(key, tt.answers)
			if result.Score != tt.score {
				t.Fatalf("score = %d, want %d", result.Score, tt.score)
			}
			if result.TotalQuestions != 3 {
				t.Fatalf("total = %d, want 3", result.TotalQuestions)
			}
			if result.Percentage != tt.percentage {
				t.Fatalf("percentage = %v, want %v", result.Percentage, tt.percentage)
			}
		})
	}
}

func TestScoreAnswersEmptyKey(t *testing.T) {
	result := ScoreAnswers(nil, []AnswerRecord{{QuestionIndex: 0, SelectedAnswer: "A"}})
	if result.Score != 0 || result.TotalQuestions != 0 || result.Percentage != 0 {
		t.Fatalf("unexpected result for empty key: %+v", result)
	}
}

func TestScoreAnswersCorrectness(t *testing.T) {
	key := map[int]string{0: "A", 1: "B"}
	result := ScoreAnswers(key, []AnswerRecord{
		{QuestionIndex: 0, SelectedAnswer: "A"},
		{QuestionIndex: 1, SelectedAnswer: "C"},
	})

	if !result.Correctness[0] {
		t.Fatal("question 0 should be correct")
	}
	if result.Correctness[1] {
		t.Fatal("question 1 should be incorrect")
	}
	if _, ok := result.Correctness[2]; ok {
		t.Fatal("unanswered question should be absent from correctness map")
	}
}

func TestSetAnswerReplaces(t *testing.T) {
	attempt := NewAttempt("user_1", "2026-08-25", 3)
	attempt.SetAnswer(0, "A")
	attempt.SetAnswer(1, "B")
	attempt.SetAnswer(0, "C")

	if len(attempt.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(attempt.Answers))
	}
	record := attempt.AnswerFor(0)
	if record == nil || record.SelectedAnswer != "C" {
		t.Fatalf("re-answer did not replace: %+v", record)
	}
	if record.IsCorrect != nil {
		t.Fatal("re-answer should reset the verdict")
	}
}

func TestAttemptProgress(t *testing.T) {
	attempt := NewAttempt("user_1", "2026-08-25", 4)
	attempt.SetAnswer(0, "A")
	attempt.SetAnswer(2, "B")

	p := attempt.Progress()
	if p.AnsweredQuestions != 2 || p.TotalQuestions != 4 {
		t.Fatalf("unexpected progress %+v", p)
	}
	if p.ProgressPercentage != 50 {
		t.Fatalf("progress percentage = %v, want 50", p.ProgressPercentage)
	}
	if p.IsCompleted {
		t.Fatal("fresh attempt should not be completed")
	}
}
