package exam

import "testing"

func intPtr(i int) *int { return &i }

func examWithKeys(passing int, keys ...int) Exam {
	qs := make([]Question, len(keys))
	for i, k := range keys {
		qs[i] = Question{
			Text:          "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: intPtr(k),
		}
	}
	return Exam{Title: "t", Questions: qs, TotalMarks: len(qs), PassingMarks: passing}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		exam    Exam
		answers []int
		score   int
		pct     float64
		passed  bool
	}{
		{
			name:    "all correct",
			exam:    examWithKeys(2, 0, 1, 2, 3),
			answers: []int{0, 1, 2, 3},
			score:   4, pct: 100, passed: true,
		},
		{
			name:    "two of five meets absolute threshold",
			exam:    examWithKeys(2, 0, 0, 0, 0, 0),
			answers: []int{0, 0, 1, 2, 3},
			score:   2, pct: 40, passed: true,
		},
		{
			name:    "all wrong",
			exam:    examWithKeys(1, 0, 1, 2),
			answers: []int{1, 2, 3},
			score:   0, pct: 0, passed: false,
		},
		{
			name:    "unanswered sentinel never matches",
			exam:    examWithKeys(1, 0, 1, 2, 3),
			answers: []int{Unanswered, Unanswered, Unanswered, Unanswered},
			score:   0, pct: 0, passed: false,
		},
		{
			name:    "short sheet scores missing tail as wrong",
			exam:    examWithKeys(1, 0, 1, 2),
			answers: []int{0},
			score:   1, pct: 33.33, passed: true,
		},
		{
			name:    "extra answers ignored",
			exam:    examWithKeys(1, 0),
			answers: []int{0, 3, 3},
			score:   1, pct: 100, passed: true,
		},
		{
			name:    "out of range answer is just wrong",
			exam:    examWithKeys(1, 0, 1),
			answers: []int{7, 1},
			score:   1, pct: 50, passed: true,
		},
		{
			name:    "percentage rounds to two decimals",
			exam:    examWithKeys(1, 0, 0, 0, 0, 0, 0, 0),
			answers: []int{0, 0, 1, 1, 1, 1, 1},
			score:   2, pct: 28.57, passed: true,
		},
		{
			name:    "threshold is a count not a percentage",
			exam:    examWithKeys(3, 0, 0, 0, 0),
			answers: []int{0, 0, 1, 1},
			score:   2, pct: 50, passed: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.exam, tc.answers)
			if got.Score != tc.score {
				t.Errorf("score = %d, want %d", got.Score, tc.score)
			}
			if got.TotalQuestions != len(tc.exam.Questions) {
				t.Errorf("totalQuestions = %d, want %d", got.TotalQuestions, len(tc.exam.Questions))
			}
			if got.Percentage != tc.pct {
				t.Errorf("percentage = %v, want %v", got.Percentage, tc.pct)
			}
			if got.Passed != tc.passed {
				t.Errorf("passed = %v, want %v", got.Passed, tc.passed)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	e := examWithKeys(2, 0, 1, 2, 3, 0)
	answers := []int{0, 1, Unanswered, 2, 0}
	first := Score(e, answers)
	for i := 0; i < 10; i++ {
		if got := Score(e, answers); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestScoreEmptyExam(t *testing.T) {
	got := Score(Exam{PassingMarks: 0}, nil)
	if got.Score != 0 || got.TotalQuestions != 0 || got.Percentage != 0 {
		t.Fatalf("got %+v, want zero summary", got)
	}
	// zero correct still meets a zero threshold
	if !got.Passed {
		t.Fatalf("passed = false, want true for zero threshold")
	}
}
