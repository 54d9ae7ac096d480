package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkandie/examhall/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exams (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		subject TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		time_limit INTEGER NOT NULL DEFAULT 0,
		questions_json TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		class TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		student_name TEXT NOT NULL,
		exam_id TEXT NOT NULL,
		answers_json TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		submitted_at DATETIME NOT NULL,
		graded_at DATETIME,
		graded_by TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_exam ON submissions(exam_id);
	CREATE INDEX IF NOT EXISTS idx_submissions_student_exam ON submissions(student_id, exam_id);

	CREATE TABLE IF NOT EXISTS teachers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateExam persists an exam and assigns it an identifier.
func (s *Store) CreateExam(e model.Exam) (model.Exam, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return model.Exam{}, fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO exams (id, title, subject, difficulty, time_limit, questions_json, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Subject, e.Difficulty, e.TimeLimit, string(qj), e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return model.Exam{}, err
	}
	return e, nil
}

// GetExam returns an exam by ID.
func (s *Store) GetExam(id string) (model.Exam, error) {
	row := s.db.QueryRow(
		`SELECT id, title, subject, difficulty, time_limit, questions_json, created_by, created_at
		 FROM exams WHERE id = ?`, id,
	)
	return scanExam(row)
}

// ListExams returns all exams, newest first.
func (s *Store) ListExams() ([]model.Exam, error) {
	rows, err := s.db.Query(
		`SELECT id, title, subject, difficulty, time_limit, questions_json, created_by, created_at
		 FROM exams ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// DeleteExam removes an exam by ID. Deleting a missing exam is ErrNotFound,
// not a silent success. Submissions referencing the exam are left in place.
func (s *Store) DeleteExam(id string) error {
	res, err := s.db.Exec(`DELETE FROM exams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExamCount returns the number of stored exams.
func (s *Store) ExamCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM exams`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (model.Exam, error) {
	var e model.Exam
	var qjson string
	err := row.Scan(&e.ID, &e.Title, &e.Subject, &e.Difficulty, &e.TimeLimit, &qjson, &e.CreatedBy, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Exam{}, ErrNotFound
	}
	if err != nil {
		return model.Exam{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return model.Exam{}, fmt.Errorf("unmarshal questions for exam %s: %w", e.ID, err)
	}
	return e, nil
}
