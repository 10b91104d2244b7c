package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-date key format used for quizzes and attempts.
const DateLayout = "2006-01-02"

// Option is a single answer choice. Keys are short labels ("A", "B", ...)
// and must be unique within a question.
type Option struct {
	Key  string `bson:"key"`
	Text string `bson:"text"`
}

// OptionList keeps options ordered in storage while serializing to the wire
// as a key->text object, which is what quiz authors submit.
type OptionList []Option

func (l OptionList) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(l))
	for _, o := range l {
		m[o.Key] = o.Text
	}
	return json.Marshal(m)
}

func (l *OptionList) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(OptionList, 0, len(keys))
	for _, k := range keys {
		out = append(out, Option{Key: k, Text: m[k]})
	}
	*l = out
	return nil
}

// Has reports whether key is one of the option keys.
func (l OptionList) Has(key string) bool {
	for _, o := range l {
		if o.Key == key {
			return true
		}
	}
	return false
}

// Question is a single-answer multiple-choice question worth exactly one point.
type Question struct {
	Text    string     `json:"question" bson:"question"`
	Options OptionList `json:"options" bson:"options"`
	Answer  string     `json:"answer,omitempty" bson:"answer"`
}

// Quiz is the immutable quiz definition for one calendar date.
type Quiz struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	QuizDate       string             `json:"quizDate" bson:"quiz_date"`
	Questions      []Question         `json:"questions" bson:"questions"`
	TotalQuestions int                `json:"totalQuestions" bson:"total_questions"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Normalize derives TotalQuestions from the question list. Call before
// Validate on externally supplied payloads.
func (q *Quiz) Normalize() {
	q.TotalQuestions = len(q.Questions)
}

// Validate checks structural well-formedness and returns a *ValidationError
// listing every problem, or nil when the quiz is valid.
func (q *Quiz) Validate() error {
	var problems []string

	if q.QuizDate == "" {
		problems = append(problems, "quiz date is required")
	} else if _, err := time.Parse(DateLayout, q.QuizDate); err != nil {
		problems = append(problems, fmt.Sprintf("quiz date %q is not in YYYY-MM-DD format", q.QuizDate))
	}

	if len(q.Questions) == 0 {
		problems = append(problems, "at least one question is required")
	}
	if q.TotalQuestions != len(q.Questions) {
		problems = append(problems, "total questions must match the question count")
	}

	for i, question := range q.Questions {
		label := fmt.Sprintf("question %d", i+1)
		if question.Text == "" {
			problems = append(problems, label+": missing question text")
		}
		if len(question.Options) < 2 {
			problems = append(problems, label+": must have at least 2 options")
		}
		seen := make(map[string]bool, len(question.Options))
		for _, o := range question.Options {
			if o.Key == "" {
				problems = append(problems, label+": option key must not be empty")
				continue
			}
			if seen[o.Key] {
				problems = append(problems, label+": duplicate option key "+o.Key)
			}
			seen[o.Key] = true
		}
		if question.Answer == "" {
			problems = append(problems, label+": missing correct answer")
		} else if !seen[question.Answer] {
			problems = append(problems, label+": answer must be one of the options")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// AnswerKey maps question index to the correct option key.
func (q *Quiz) AnswerKey() map[int]string {
	key := make(map[int]string, len(q.Questions))
	for i, question := range q.Questions {
		key[i] = question.Answer
	}
	return key
}

// WithoutAnswers returns a copy safe to serve to quiz takers.
func (q *Quiz) WithoutAnswers() *Quiz {
	out := *q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Answer = ""
		out.Questions[i] = question
	}
	return &out
}
