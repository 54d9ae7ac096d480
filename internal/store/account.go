package store

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkandie/examhall/internal/model"
)

// CreateTeacher inserts a new teacher account.
func (s *Store) CreateTeacher(a model.Account) (model.Account, error) {
	a.ID = uuid.NewString()
	a.Role = model.RoleTeacher
	a.CreatedAt = time.Now()
	_, err := s.db.Exec(
		`INSERT INTO teachers (id, name, email, username, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.Username, a.PasswordHash, a.CreatedAt,
	)
	if err != nil {
		slog.Error("failed to create teacher", "email", a.Email, "error", err)
		return model.Account{}, err
	}
	slog.Info("created teacher", "id", a.ID, "email", a.Email)
	return a, nil
}

// GetTeacherByEmail returns a teacher account by email, or nil if absent.
func (s *Store) GetTeacherByEmail(email string) (*model.Account, error) {
	var a model.Account
	err := s.db.QueryRow(
		`SELECT id, name, email, username, password_hash, created_at FROM teachers WHERE email = ?`, email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Role = model.RoleTeacher
	return &a, nil
}

// GetTeacherByID returns a teacher account by ID, or nil if absent.
func (s *Store) GetTeacherByID(id string) (*model.Account, error) {
	var a model.Account
	err := s.db.QueryRow(
		`SELECT id, name, email, username, password_hash, created_at FROM teachers WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Role = model.RoleTeacher
	return &a, nil
}

// ListTeachers returns all teacher accounts.
func (s *Store) ListTeachers() ([]model.Account, error) {
	rows, err := s.db.Query(
		`SELECT id, name, email, username, password_hash, created_at FROM teachers ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var teachers []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Role = model.RoleTeacher
		teachers = append(teachers, a)
	}
	return teachers, rows.Err()
}

// CreateAdmin inserts a new admin account.
func (s *Store) CreateAdmin(a model.Account) (model.Account, error) {
	a.ID = uuid.NewString()
	a.Role = model.RoleAdmin
	a.CreatedAt = time.Now()
	_, err := s.db.Exec(
		`INSERT INTO admins (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Username, a.PasswordHash, a.CreatedAt,
	)
	if err != nil {
		slog.Error("failed to create admin", "username", a.Username, "error", err)
		return model.Account{}, err
	}
	slog.Info("created admin", "id", a.ID, "username", a.Username)
	return a, nil
}

// GetAdminByUsername returns an admin account by username, or nil if absent.
func (s *Store) GetAdminByUsername(username string) (*model.Account, error) {
	var a model.Account
	err := s.db.QueryRow(
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Role = model.RoleAdmin
	return &a, nil
}

// GetAdminByID returns an admin account by ID, or nil if absent.
func (s *Store) GetAdminByID(id string) (*model.Account, error) {
	var a model.Account
	err := s.db.QueryRow(
		`SELECT id, username, password_hash, created_at FROM admins WHERE id = ?`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Role = model.RoleAdmin
	return &a, nil
}

// AdminCount returns the total number of admin accounts.
func (s *Store) AdminCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}
