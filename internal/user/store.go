// Package user is the identity store: signup, credential check, lookup.
// Passwords are stored as bcrypt hashes only.
package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/examportal/examportal/internal/db"
)

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)

const bcryptCost = 12

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`

	passwordHash string
}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleFaculty
}

type Store interface {
	// Create hashes the password and inserts the user. Email comparison is
	// case-insensitive: addresses are lowercased before storage.
	Create(ctx context.Context, name, email, password, role string) (User, error)
	// Authenticate resolves (email, role) and compares the password against
	// the stored hash. Every failure is ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password, role string) (User, error)
	Get(ctx context.Context, id string) (User, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(dbh *sql.DB) *SQLStore { return &SQLStore{db: dbh} }

func (s *SQLStore) Create(ctx context.Context, name, email, password, role string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		CreatedAt: time.Now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id,name,email,password_hash,role,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Name, u.Email, string(hash), u.Role, u.CreatedAt.Unix())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) Authenticate(ctx context.Context, email, password, role string) (User, error) {
	u, err := s.scanOne(ctx, `WHERE email=$1 AND role=$2`, strings.ToLower(strings.TrimSpace(email)), role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (User, error) {
	return s.scanOne(ctx, `WHERE id=$1`, id)
}

func (s *SQLStore) scanOne(ctx context.Context, where string, args ...any) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,email,password_hash,role,created_at FROM users `+where, args...)
	var u User
	var created int64
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.passwordHash, &u.Role, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.CreatedAt = time.Unix(created, 0)
	return u, nil
}

type memoryStore struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string // lowercased email -> id
}

// NewMemoryStore is the in-process variant used by tests.
func NewMemoryStore() Store {
	return &memoryStore{byID: map[string]User{}, byEmail: map[string]string{}}
}

func (m *memoryStore) Create(ctx context.Context, name, email, password, role string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	lower := strings.ToLower(strings.TrimSpace(email))
	if _, taken := m.byEmail[lower]; taken {
		return User{}, ErrEmailTaken
	}
	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        lower,
		Role:         role,
		CreatedAt:    time.Now(),
		passwordHash: string(hash),
	}
	m.byID[u.ID] = u
	m.byEmail[lower] = u.ID
	return u, nil
}

func (m *memoryStore) Authenticate(ctx context.Context, email, password, role string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	u := m.byID[id]
	if u.Role != role {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
