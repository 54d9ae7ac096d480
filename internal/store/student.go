package store

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkandie/examhall/internal/model"
)

// CreateStudent registers a student, idempotent on email: registering twice
// with the same email returns the existing record untouched.
func (s *Store) CreateStudent(st model.Student) (model.Student, error) {
	existing, err := s.GetStudentByEmail(st.Email)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		return model.Student{}, err
	}

	st.ID = uuid.NewString()
	st.CreatedAt = time.Now()
	_, err = s.db.Exec(
		`INSERT INTO students (id, name, email, class, created_at) VALUES (?, ?, ?, ?, ?)`,
		st.ID, st.Name, st.Email, st.Class, st.CreatedAt,
	)
	if err != nil {
		slog.Error("failed to create student", "email", st.Email, "error", err)
		return model.Student{}, err
	}
	slog.Info("registered student", "id", st.ID, "email", st.Email)
	return st, nil
}

// GetStudent returns a student by ID.
func (s *Store) GetStudent(id string) (model.Student, error) {
	var st model.Student
	err := s.db.QueryRow(
		`SELECT id, name, email, class, created_at FROM students WHERE id = ?`, id,
	).Scan(&st.ID, &st.Name, &st.Email, &st.Class, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Student{}, ErrNotFound
	}
	return st, err
}

// GetStudentByEmail returns a student by email.
func (s *Store) GetStudentByEmail(email string) (model.Student, error) {
	var st model.Student
	err := s.db.QueryRow(
		`SELECT id, name, email, class, created_at FROM students WHERE email = ?`, email,
	).Scan(&st.ID, &st.Name, &st.Email, &st.Class, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Student{}, ErrNotFound
	}
	return st, err
}

// StudentCount returns the number of registered students.
func (s *Store) StudentCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM students`).Scan(&count)
	return count, err
}
