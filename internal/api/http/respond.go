package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/examportal/examportal/internal/eventlog"
	"github.com/examportal/examportal/internal/exam"
	"github.com/examportal/examportal/internal/user"
	"github.com/examportal/examportal/pkg/logger"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// respondError translates domain errors into the response taxonomy:
// validation/conflict 400, bad credentials 401, unknown resource 404,
// anything else a logged 500 with a generic message.
func respondError(w http.ResponseWriter, err error) {
	var verr exam.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, exam.ErrAlreadySubmitted), errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, exam.ErrExamNotFound), errors.Is(err, exam.ErrInvalidAccessKey),
		errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logger.Log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// appendEvent writes an audit event if a log is configured. Audit failures
// never fail the request.
func appendEvent(ctx context.Context, events *eventlog.Log, typ, key string, data any) {
	if events == nil {
		return
	}
	if err := events.Append(ctx, typ, key, data); err != nil {
		logger.Log.Warn("event append failed", zap.String("type", typ), zap.Error(err))
	}
}
