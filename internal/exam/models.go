package exam

import (
	"strings"
	"time"
)

const (
	// Unanswered is the sentinel for a question the student left blank.
	// It can never equal a correct-answer index (0..3), so a blank entry
	// always scores as wrong.
	Unanswered = -1

	// OptionsPerQuestion is fixed: every question carries exactly four choices.
	OptionsPerQuestion = 4
)

type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"` // nil once stripped for delivery
}

type Exam struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	FacultyID    string     `json:"facultyId"`
	FacultyName  string     `json:"facultyName"`
	AccessKey    string     `json:"accessKey"`
	Questions    []Question `json:"questions"`
	Duration     int        `json:"duration"` // minutes
	TotalMarks   int        `json:"totalMarks"`
	PassingMarks int        `json:"passingMarks"` // absolute count of correct answers, not a percentage
	Active       bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Result is one student's scored submission. Exam title and student display
// fields are denormalized at write time so later edits never rewrite history.
type Result struct {
	ID             string    `json:"id"`
	ExamID         string    `json:"examId"`
	ExamTitle      string    `json:"examTitle"`
	StudentID      string    `json:"studentId"`
	StudentName    string    `json:"studentName"`
	StudentEmail   string    `json:"studentEmail"`
	Answers        []int     `json:"answers"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     float64   `json:"percentage"`
	Passed         bool      `json:"passed"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Submission is the input to the submission gate.
type Submission struct {
	ExamID       string `json:"examId"`
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	Answers      []int  `json:"answers"`
}

// Validate checks an exam as received from the create endpoint. The access
// key, total marks and timestamps are assigned by the store afterwards.
func (e *Exam) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ValidationError("title is required")
	}
	if e.FacultyID == "" || e.FacultyName == "" {
		return ValidationError("faculty identity is required")
	}
	if len(e.Questions) == 0 {
		return ValidationError("at least one question is required")
	}
	for _, q := range e.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return ValidationError("question text is required")
		}
		if len(q.Options) != OptionsPerQuestion {
			return ValidationError("each question must have exactly 4 options")
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return ValidationError("question options must not be empty")
			}
		}
		if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= OptionsPerQuestion {
			return ValidationError("correct answer must be an option index between 0 and 3")
		}
	}
	return nil
}

// Sanitized returns a copy of the exam with every correct-answer index
// removed. Any exam payload that leaves the server before submission must
// go through this.
func (e Exam) Sanitized() Exam {
	out := e
	out.Questions = make([]Question, len(e.Questions))
	for i, q := range e.Questions {
		q.CorrectAnswer = nil
		out.Questions[i] = q
	}
	return out
}
