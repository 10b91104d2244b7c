package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnswerRecord is one saved answer. IsCorrect stays nil until the attempt
// is scored on submission.
type AnswerRecord struct {
	QuestionIndex  int       `json:"questionIndex" bson:"question_index"`
	SelectedAnswer string    `json:"selectedAnswer" bson:"selected_answer"`
	IsCorrect      *bool     `json:"isCorrect" bson:"is_correct"`
	AnsweredAt     time.Time `json:"answeredAt" bson:"answered_at"`
}

// QuizAttempt tracks one user's attempt at one date's quiz, from creation
// through optional completion. At most one attempt exists per (user, date);
// the store's unique index enforces that.
type QuizAttempt struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         string             `json:"userId" bson:"user_id"`
	QuizDate       string             `json:"quizDate" bson:"quiz_date"`
	Answers        []AnswerRecord     `json:"answers" bson:"answers"`
	Score          int                `json:"score" bson:"score"`
	TotalQuestions int                `json:"totalQuestions" bson:"total_questions"`
	Percentage     float64            `json:"percentage" bson:"percentage"`
	AttemptedAt    time.Time          `json:"attemptedAt" bson:"attempted_at"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	IsCompleted    bool               `json:"isCompleted" bson:"is_completed"`
	AutoSaved      bool               `json:"autoSaved" bson:"auto_saved"`
}

// NewAttempt builds a fresh in-progress attempt.
func NewAttempt(userID, quizDate string, totalQuestions int) *QuizAttempt {
	return &QuizAttempt{
		UserID:         userID,
		QuizDate:       quizDate,
		Answers:        []AnswerRecord{},
		TotalQuestions: totalQuestions,
		AttemptedAt:    time.Now().UTC(),
	}
}

// SetAnswer records the answer for a question, replacing any earlier record
// for the same index so re-answering never duplicates.
func (a *QuizAttempt) SetAnswer(index int, selected string) {
	now := time.Now().UTC()
	for i := range a.Answers {
		if a.Answers[i].QuestionIndex == index {
			a.Answers[i].SelectedAnswer = selected
			a.Answers[i].IsCorrect = nil
			a.Answers[i].AnsweredAt = now
			return
		}
	}
	a.Answers = append(a.Answers, AnswerRecord{
		QuestionIndex:  index,
		SelectedAnswer: selected,
		AnsweredAt:     now,
	})
}

// AnswerFor returns the record for a question index, or nil.
func (a *QuizAttempt) AnswerFor(index int) *AnswerRecord {
	for i := range a.Answers {
		if a.Answers[i].QuestionIndex == index {
			return &a.Answers[i]
		}
	}
	return nil
}

// Progress summarizes how far an attempt has gotten.
type Progress struct {
	AnsweredQuestions  int     `json:"answeredQuestions"`
	TotalQuestions     int     `json:"totalQuestions"`
	ProgressPercentage float64 `json:"progressPercentage"`
	IsCompleted        bool    `json:"isCompleted"`
}

// Progress reports the current answer coverage for the attempt.
func (a *QuizAttempt) Progress() Progress {
	p := Progress{
		AnsweredQuestions: len(a.Answers),
		TotalQuestions:    a.TotalQuestions,
		IsCompleted:       a.IsCompleted,
	}
	if a.TotalQuestions > 0 {
		p.ProgressPercentage = Round2(100 * float64(len(a.Answers)) / float64(a.TotalQuestions))
	}
	return p
}
