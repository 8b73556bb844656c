package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examportal/examportal/internal/auth"
	"github.com/examportal/examportal/internal/eventlog"
	"github.com/examportal/examportal/internal/exam"
	"github.com/examportal/examportal/internal/rbac"
	"github.com/examportal/examportal/internal/user"
)

type Deps struct {
	Users  user.Store
	Exams  exam.Store
	Auth   *auth.Service
	Events *eventlog.Log // optional
}

// Mount attaches the full API: public auth endpoints, then the JWT + RBAC
// protected faculty and student surfaces.
func Mount(r chi.Router, d Deps) {
	r.Post("/auth/signup", SignupHandler(d.Users))
	r.Post("/auth/login", LoginHandler(d.Users, d.Auth))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(d.Auth))

		pr.With(rbac.Require("exam:create")).
			Post("/faculty/exam", CreateExamHandler(d.Exams, d.Events))
		pr.With(rbac.Require("exam:list-own")).
			Get("/faculty/exams/{facultyID}", ListFacultyExamsHandler(d.Exams))
		pr.With(rbac.Require("exam:delete-own")).
			Delete("/faculty/exam/{examID}", DeleteExamHandler(d.Exams, d.Events))
		pr.With(rbac.Require("exam:toggle-own")).
			Put("/faculty/exam/{examID}/active", SetExamActiveHandler(d.Exams, d.Events))
		pr.With(rbac.Require("result:view-exam")).
			Get("/faculty/exam/{examID}/results", ExamResultsHandler(d.Exams))

		pr.With(rbac.Require("exam:take")).
			Get("/student/exam/{accessKey}", GetExamByKeyHandler(d.Exams))
		pr.With(rbac.Require("result:submit")).
			Post("/student/exam/submit", SubmitExamHandler(d.Exams, d.Events))
		pr.With(rbac.Require("result:view-own")).
			Get("/student/results/{studentID}", StudentResultsHandler(d.Exams))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
}
