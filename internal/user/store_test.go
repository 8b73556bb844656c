package user

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/examportal/examportal/internal/db"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return map[string]Store{
		"sql":    NewSQLStore(dbh),
		"memory": NewMemoryStore(),
	}
}

func TestCreateAndAuthenticate(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			u, err := s.Create(ctx, "Alice", "Alice@Example.COM", "hunter22", RoleStudent)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if u.Email != "alice@example.com" {
				t.Fatalf("email = %q, want lowercased", u.Email)
			}
			if u.ID == "" {
				t.Fatal("no id assigned")
			}

			got, err := s.Authenticate(ctx, "alice@example.com", "hunter22", RoleStudent)
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if got.ID != u.ID {
				t.Fatalf("authenticated id = %q, want %q", got.ID, u.ID)
			}

			// mixed-case login address resolves to the same account
			if _, err := s.Authenticate(ctx, "ALICE@example.com", "hunter22", RoleStudent); err != nil {
				t.Fatalf("mixed-case Authenticate: %v", err)
			}
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Create(ctx, "A", "dup@example.com", "pw", RoleStudent); err != nil {
				t.Fatalf("Create: %v", err)
			}
			// same address, different case and role, still taken
			_, err := s.Create(ctx, "B", "DUP@example.com", "pw2", RoleFaculty)
			if !errors.Is(err, ErrEmailTaken) {
				t.Fatalf("err = %v, want ErrEmailTaken", err)
			}
		})
	}
}

func TestAuthenticateFailures(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Create(ctx, "A", "a@example.com", "correct", RoleStudent); err != nil {
				t.Fatalf("Create: %v", err)
			}

			cases := []struct {
				name, email, password, role string
			}{
				{"wrong password", "a@example.com", "wrong", RoleStudent},
				{"wrong role", "a@example.com", "correct", RoleFaculty},
				{"unknown email", "nobody@example.com", "correct", RoleStudent},
			}
			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					_, err := s.Authenticate(ctx, tc.email, tc.password, tc.role)
					if !errors.Is(err, ErrInvalidCredentials) {
						t.Fatalf("err = %v, want ErrInvalidCredentials", err)
					}
				})
			}
		})
	}
}

func TestGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u, err := s.Create(ctx, "A", "get@example.com", "pw", RoleFaculty)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			got, err := s.Get(ctx, u.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Role != RoleFaculty || got.Name != "A" {
				t.Fatalf("got %+v", got)
			}
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestPasswordNeverStoredPlain(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbh.Close()
	s := NewSQLStore(dbh)

	u, err := s.Create(context.Background(), "A", "hash@example.com", "plaintext-pw", RoleStudent)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	var stored string
	if err := dbh.QueryRow(`SELECT password_hash FROM users WHERE id=$1`, u.ID).Scan(&stored); err != nil {
		t.Fatalf("select: %v", err)
	}
	if strings.Contains(stored, "plaintext-pw") {
		t.Fatal("password stored in the clear")
	}
	if !strings.HasPrefix(stored, "$2") {
		t.Fatalf("stored value %q is not a bcrypt hash", stored)
	}
}

func TestValidRole(t *testing.T) {
	for role, want := range map[string]bool{
		RoleStudent: true,
		RoleFaculty: true,
		"admin":     false,
		"":          false,
	} {
		if got := ValidRole(role); got != want {
			t.Errorf("ValidRole(%q) = %v, want %v", role, got, want)
		}
	}
}
