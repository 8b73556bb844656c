package http

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examportal/examportal/internal/auth"
	"github.com/examportal/examportal/internal/eventlog"
	"github.com/examportal/examportal/internal/exam"
)

const defaultDuration = 30 // minutes

type createExamRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	FacultyID   string          `json:"facultyId"`
	FacultyName string          `json:"facultyName"`
	Questions   []exam.Question `json:"questions"`
	Duration    int             `json:"duration"`
	// PassingMarks is an absolute count; PassingPercent, when present,
	// wins and is converted to a count before storage. Scoring always
	// compares against the absolute count.
	PassingMarks   int      `json:"passingMarks"`
	PassingPercent *float64 `json:"passingPercent"`
}

// POST /faculty/exam
func CreateExamHandler(store exam.Store, events *eventlog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createExamRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.FacultyID != "" && req.FacultyID != auth.SubjectFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		e := exam.Exam{
			Title:        req.Title,
			Description:  req.Description,
			FacultyID:    req.FacultyID,
			FacultyName:  req.FacultyName,
			Questions:    req.Questions,
			Duration:     req.Duration,
			PassingMarks: passingMarks(req),
		}
		if e.Duration <= 0 {
			e.Duration = defaultDuration
		}
		if err := e.Validate(); err != nil {
			respondError(w, err)
			return
		}
		created, err := store.CreateExam(r.Context(), e)
		if err != nil {
			respondError(w, err)
			return
		}
		appendEvent(r.Context(), events, eventlog.TypeExamCreated, created.ID, map[string]any{
			"facultyId": created.FacultyID,
			"title":     created.Title,
			"questions": len(created.Questions),
		})
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Exam created successfully",
			"exam": map[string]any{
				"id":             created.ID,
				"title":          created.Title,
				"accessKey":      created.AccessKey,
				"totalQuestions": len(created.Questions),
				"duration":       created.Duration,
			},
		})
	}
}

// passingMarks resolves the threshold: explicit percentage converts to a
// count, an explicit count passes through, otherwise 40% of the questions
// rounded up.
func passingMarks(req createExamRequest) int {
	n := len(req.Questions)
	if req.PassingPercent != nil {
		return int(math.Ceil(*req.PassingPercent / 100 * float64(n)))
	}
	if req.PassingMarks > 0 {
		return req.PassingMarks
	}
	return int(math.Ceil(float64(n) * 0.4))
}

// GET /faculty/exams/{facultyID}
func ListFacultyExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facultyID := chi.URLParam(r, "facultyID")
		if facultyID != auth.SubjectFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		exams, err := store.ListExamsByFaculty(r.Context(), facultyID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"exams": exams})
	}
}

// DELETE /faculty/exam/{examID}
func DeleteExamHandler(store exam.Store, events *eventlog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		e, err := requireOwnedExam(w, r, store, examID)
		if err != nil {
			return
		}
		if err := store.DeleteExam(r.Context(), examID); err != nil {
			respondError(w, err)
			return
		}
		appendEvent(r.Context(), events, eventlog.TypeExamDeleted, examID, map[string]any{
			"facultyId": e.FacultyID,
			"title":     e.Title,
		})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Exam deleted successfully"})
	}
}

// PUT /faculty/exam/{examID}/active  {active}
func SetExamActiveHandler(store exam.Store, events *eventlog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		var req struct {
			Active bool `json:"active"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if _, err := requireOwnedExam(w, r, store, examID); err != nil {
			return
		}
		updated, err := store.SetExamActive(r.Context(), examID, req.Active)
		if err != nil {
			respondError(w, err)
			return
		}
		appendEvent(r.Context(), events, eventlog.TypeExamActive, examID, map[string]any{
			"active": req.Active,
		})
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Exam updated successfully",
			"exam":    updated,
		})
	}
}

// GET /faculty/exam/{examID}/results
func ExamResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		e, err := requireOwnedExam(w, r, store, examID)
		if err != nil {
			return
		}
		results, err := store.ListResultsByExam(r.Context(), examID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"exam": map[string]any{
				"id":           e.ID,
				"title":        e.Title,
				"totalMarks":   e.TotalMarks,
				"passingMarks": e.PassingMarks,
			},
			"results": results,
		})
	}
}

// requireOwnedExam loads the exam and checks the caller owns it. On failure
// the response is already written and a non-nil error tells the handler to
// stop.
func requireOwnedExam(w http.ResponseWriter, r *http.Request, store exam.Store, examID string) (exam.Exam, error) {
	e, err := store.GetExam(r.Context(), examID)
	if err != nil {
		respondError(w, err)
		return exam.Exam{}, err
	}
	if e.FacultyID != auth.SubjectFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "forbidden")
		return exam.Exam{}, errNotOwner
	}
	return e, nil
}

var errNotOwner = errors.New("not the owning faculty")
