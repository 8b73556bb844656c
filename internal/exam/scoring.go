package exam

import "math"

// Summary is what a student sees right after submitting.
type Summary struct {
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
	Passed         bool    `json:"passed"`
}

// Score grades an answer sheet against the exam's answer key. Position i of
// answers corresponds to question i; entries beyond the question count are
// ignored, and a short sheet scores its missing tail as unanswered.
//
// Passed compares the raw correct count against PassingMarks, an absolute
// threshold. The create API accepts a passing percentage and converts it
// before storage; scoring itself never sees percentages.
//
// Pure function: same exam and answers always produce the same summary.
func Score(e Exam, answers []int) Summary {
	score := 0
	for i, q := range e.Questions {
		if q.CorrectAnswer == nil {
			continue
		}
		if i < len(answers) && answers[i] == *q.CorrectAnswer {
			score++
		}
	}
	total := len(e.Questions)
	pct := 0.0
	if total > 0 {
		pct = round2(float64(score) / float64(total) * 100)
	}
	return Summary{
		Score:          score,
		TotalQuestions: total,
		Percentage:     pct,
		Passed:         score >= e.PassingMarks,
	}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
