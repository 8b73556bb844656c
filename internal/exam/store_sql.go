package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/examportal/examportal/internal/db"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(dbh *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: dbh, driver: driver}
}

func (s *SQLStore) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return Exam{}, err
	}
	e.ID = uuid.NewString()
	e.TotalMarks = len(e.Questions)
	e.Active = true
	e.CreatedAt = time.Now()

	// The key has no uniqueness guarantee at generation time; the unique
	// index on access_key is authoritative. Regenerate and retry on
	// collision.
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := NewAccessKey()
		if err != nil {
			return Exam{}, err
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO exams (id,title,description,faculty_id,faculty_name,access_key,
			                    questions_json,duration_min,total_marks,passing_marks,active,created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			e.ID, e.Title, e.Description, e.FacultyID, e.FacultyName, key,
			string(qj), e.Duration, e.TotalMarks, e.PassingMarks, e.Active, e.CreatedAt.Unix())
		if err == nil {
			e.AccessKey = key
			return e, nil
		}
		if !db.IsUniqueViolation(err) {
			return Exam{}, err
		}
	}
	return Exam{}, ErrKeySpaceExhausted
}

// GetExam returns the full exam, answer keys included. For scoring and
// ownership checks only; never serialize its output to a client.
func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	return s.getExam(ctx, `WHERE id=$1`, id)
}

// GetExamByKey is the student entry point: active exams only, answers
// stripped. A wrong key and an inactive exam are indistinguishable on
// purpose.
func (s *SQLStore) GetExamByKey(ctx context.Context, accessKey string) (Exam, error) {
	e, err := s.getExam(ctx, `WHERE access_key=$1 AND active`, accessKey)
	if err != nil {
		if errors.Is(err, ErrExamNotFound) {
			return Exam{}, ErrInvalidAccessKey
		}
		return Exam{}, err
	}
	return e.Sanitized(), nil
}

func (s *SQLStore) getExam(ctx context.Context, where string, arg any) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,faculty_id,faculty_name,access_key,
		        questions_json,duration_min,total_marks,passing_marks,active,created_at
		 FROM exams `+where, arg)
	return scanExam(row)
}

func (s *SQLStore) ListExamsByFaculty(ctx context.Context, facultyID string) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,description,faculty_id,faculty_name,access_key,
		        questions_json,duration_min,total_marks,passing_marks,active,created_at
		 FROM exams WHERE faculty_id=$1 ORDER BY created_at DESC`, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e.Sanitized())
	}
	return out, rows.Err()
}

func (s *SQLStore) SetExamActive(ctx context.Context, examID string, active bool) (Exam, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE exams SET active=$1 WHERE id=$2`, active, examID)
	if err != nil {
		return Exam{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Exam{}, ErrExamNotFound
	}
	e, err := s.GetExam(ctx, examID)
	if err != nil {
		return Exam{}, err
	}
	return e.Sanitized(), nil
}

// DeleteExam removes the exam and all of its results in one transaction, so
// no result can outlive its exam.
func (s *SQLStore) DeleteExam(ctx context.Context, examID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE exam_id=$1`, examID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, examID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrExamNotFound
	}
	return tx.Commit()
}

// SubmitResult is the single-attempt submission gate. The pre-insert lookup
// is only a fast path for a friendly error; under a concurrent double
// submission the unique index on (exam_id, student_id) is what actually
// holds the line, and its violation maps to the same error.
func (s *SQLStore) SubmitResult(ctx context.Context, sub Submission) (Result, error) {
	e, err := s.GetExam(ctx, sub.ExamID)
	if err != nil {
		return Result{}, err
	}

	var one int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM results WHERE exam_id=$1 AND student_id=$2`,
		sub.ExamID, sub.StudentID).Scan(&one)
	if err == nil {
		return Result{}, ErrAlreadySubmitted
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Result{}, err
	}

	sum := Score(e, sub.Answers)
	aj, err := json.Marshal(sub.Answers)
	if err != nil {
		return Result{}, err
	}
	r := Result{
		ID:             uuid.NewString(),
		ExamID:         e.ID,
		ExamTitle:      e.Title,
		StudentID:      sub.StudentID,
		StudentName:    sub.StudentName,
		StudentEmail:   sub.StudentEmail,
		Answers:        sub.Answers,
		Score:          sum.Score,
		TotalQuestions: sum.TotalQuestions,
		Percentage:     sum.Percentage,
		Passed:         sum.Passed,
		SubmittedAt:    time.Now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id,exam_id,exam_title,student_id,student_name,student_email,
		                      answers_json,score,total_questions,percentage,passed,submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.ID, r.ExamID, r.ExamTitle, r.StudentID, r.StudentName, r.StudentEmail,
		string(aj), r.Score, r.TotalQuestions, r.Percentage, r.Passed, r.SubmittedAt.Unix())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Result{}, ErrAlreadySubmitted
		}
		return Result{}, err
	}
	return r, nil
}

func (s *SQLStore) ListResultsByExam(ctx context.Context, examID string) ([]Result, error) {
	// ties on score rank the earlier submission first
	return s.listResults(ctx,
		`WHERE exam_id=$1 ORDER BY score DESC, submitted_at ASC`, examID)
}

func (s *SQLStore) ListResultsByStudent(ctx context.Context, studentID string) ([]Result, error) {
	return s.listResults(ctx,
		`WHERE student_id=$1 ORDER BY submitted_at DESC`, studentID)
}

func (s *SQLStore) listResults(ctx context.Context, where string, arg any) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,exam_id,exam_title,student_id,student_name,student_email,
		        answers_json,score,total_questions,percentage,passed,submitted_at
		 FROM results `+where, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var r Result
		var aj string
		var submitted int64
		if err := rows.Scan(&r.ID, &r.ExamID, &r.ExamTitle, &r.StudentID, &r.StudentName, &r.StudentEmail,
			&aj, &r.Score, &r.TotalQuestions, &r.Percentage, &r.Passed, &submitted); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(aj), &r.Answers); err != nil {
			return nil, err
		}
		r.SubmittedAt = time.Unix(submitted, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (Exam, error) {
	var e Exam
	var qjson string
	var created int64
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.FacultyID, &e.FacultyName, &e.AccessKey,
		&qjson, &e.Duration, &e.TotalMarks, &e.PassingMarks, &e.Active, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrExamNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, err
	}
	e.CreatedAt = time.Unix(created, 0)
	return e, nil
}
