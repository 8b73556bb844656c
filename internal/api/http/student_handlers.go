package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examportal/examportal/internal/auth"
	"github.com/examportal/examportal/internal/eventlog"
	"github.com/examportal/examportal/internal/exam"
)

// GET /student/exam/{accessKey}
//
// The store already strips answer keys and filters on the active flag; a
// wrong key and an inactive exam produce the same 404.
func GetExamByKeyHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExamByKey(r.Context(), chi.URLParam(r, "accessKey"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"exam": e})
	}
}

// POST /student/exam/submit  {examId, studentId, studentName, studentEmail, answers[]}
func SubmitExamHandler(store exam.Store, events *eventlog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub exam.Submission
		if err := decodeJSON(r, &sub); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if sub.ExamID == "" || sub.StudentID == "" || sub.StudentName == "" ||
			sub.StudentEmail == "" || sub.Answers == nil {
			writeError(w, http.StatusBadRequest, "all fields are required")
			return
		}
		if sub.StudentID != auth.SubjectFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		res, err := store.SubmitResult(r.Context(), sub)
		if err != nil {
			respondError(w, err)
			return
		}
		appendEvent(r.Context(), events, eventlog.TypeResultSubmitted, res.ID, map[string]any{
			"examId":    res.ExamID,
			"studentId": res.StudentID,
			"score":     res.Score,
			"passed":    res.Passed,
		})
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Exam submitted successfully",
			"result": exam.Summary{
				Score:          res.Score,
				TotalQuestions: res.TotalQuestions,
				Percentage:     res.Percentage,
				Passed:         res.Passed,
			},
		})
	}
}

// GET /student/results/{studentID}
func StudentResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "studentID")
		if studentID != auth.SubjectFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		results, err := store.ListResultsByStudent(r.Context(), studentID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": results})
	}
}
