package exam

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the exam and result persistence surface. GetExamByKey and
// ListExamsByFaculty never expose answer keys; GetExam does, and exists for
// scoring and ownership checks only.
type Store interface {
	CreateExam(ctx context.Context, e Exam) (Exam, error)
	GetExam(ctx context.Context, id string) (Exam, error)
	GetExamByKey(ctx context.Context, accessKey string) (Exam, error)
	ListExamsByFaculty(ctx context.Context, facultyID string) ([]Exam, error)
	SetExamActive(ctx context.Context, examID string, active bool) (Exam, error)
	DeleteExam(ctx context.Context, examID string) error

	SubmitResult(ctx context.Context, sub Submission) (Result, error)
	ListResultsByExam(ctx context.Context, examID string) ([]Result, error)
	ListResultsByStudent(ctx context.Context, studentID string) ([]Result, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	exams   map[string]Exam
	keys    map[string]string // access key -> exam id
	results map[string]Result
}

// NewMemoryStore returns an in-process Store with the same semantics as the
// SQL store, including the single-submission guarantee. Used in tests and
// handler experiments; production runs on SQL.
func NewMemoryStore() Store {
	return &memoryStore{
		exams:   map[string]Exam{},
		keys:    map[string]string{},
		results: map[string]Result{},
	}
}

func (m *memoryStore) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := NewAccessKey()
		if err != nil {
			return Exam{}, err
		}
		if _, taken := m.keys[key]; taken {
			continue
		}
		e.ID = uuid.NewString()
		e.AccessKey = key
		e.TotalMarks = len(e.Questions)
		e.Active = true
		e.CreatedAt = time.Now()
		m.exams[e.ID] = e
		m.keys[key] = e.ID
		return e, nil
	}
	return Exam{}, ErrKeySpaceExhausted
}

func (m *memoryStore) GetExam(ctx context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return e, nil
}

func (m *memoryStore) GetExamByKey(ctx context.Context, accessKey string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.keys[accessKey]
	if !ok {
		return Exam{}, ErrInvalidAccessKey
	}
	e := m.exams[id]
	if !e.Active {
		return Exam{}, ErrInvalidAccessKey
	}
	return e.Sanitized(), nil
}

func (m *memoryStore) ListExamsByFaculty(ctx context.Context, facultyID string) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Exam{}
	for _, e := range m.exams {
		if e.FacultyID == facultyID {
			out = append(out, e.Sanitized())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) SetExamActive(ctx context.Context, examID string, active bool) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[examID]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	e.Active = active
	m.exams[examID] = e
	return e.Sanitized(), nil
}

func (m *memoryStore) DeleteExam(ctx context.Context, examID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[examID]
	if !ok {
		return ErrExamNotFound
	}
	delete(m.exams, examID)
	delete(m.keys, e.AccessKey)
	for id, r := range m.results {
		if r.ExamID == examID {
			delete(m.results, id)
		}
	}
	return nil
}

func (m *memoryStore) SubmitResult(ctx context.Context, sub Submission) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[sub.ExamID]
	if !ok {
		return Result{}, ErrExamNotFound
	}
	for _, r := range m.results {
		if r.ExamID == sub.ExamID && r.StudentID == sub.StudentID {
			return Result{}, ErrAlreadySubmitted
		}
	}
	sum := Score(e, sub.Answers)
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
	m.results[r.ID] = r
	return r, nil
}

func (m *memoryStore) ListResultsByExam(ctx context.Context, examID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Result{}
	for _, r := range m.results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	// score descending; earlier submission wins ties
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (m *memoryStore) ListResultsByStudent(ctx context.Context, studentID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Result{}
	for _, r := range m.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}
