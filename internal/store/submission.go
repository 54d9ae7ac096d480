package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkandie/examhall/internal/model"
)

// CreateSubmission persists a new submission and assigns it an identifier.
func (s *Store) CreateSubmission(sub model.Submission) (model.Submission, error) {
	sub.ID = uuid.NewString()
	sub.SubmittedAt = time.Now()
	aj, err := json.Marshal(sub.Answers)
	if err != nil {
		return model.Submission{}, fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO submissions (id, student_id, student_name, exam_id, answers_json, score, submitted_at, graded_at, graded_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL, '')`,
		sub.ID, sub.StudentID, sub.StudentName, sub.ExamID, string(aj), sub.Score, sub.SubmittedAt,
	)
	if err != nil {
		return model.Submission{}, err
	}
	return sub, nil
}

// GetSubmission returns a submission by ID.
func (s *Store) GetSubmission(id string) (model.Submission, error) {
	row := s.db.QueryRow(
		`SELECT id, student_id, student_name, exam_id, answers_json, score, submitted_at, graded_at, graded_by
		 FROM submissions WHERE id = ?`, id,
	)
	return scanSubmission(row)
}

// GetStudentSubmission returns the submission for a (student, exam) pair.
func (s *Store) GetStudentSubmission(studentID, examID string) (model.Submission, error) {
	row := s.db.QueryRow(
		`SELECT id, student_id, student_name, exam_id, answers_json, score, submitted_at, graded_at, graded_by
		 FROM submissions WHERE student_id = ? AND exam_id = ?`, studentID, examID,
	)
	return scanSubmission(row)
}

// ListSubmissionsForExam returns all submissions for an exam, newest first.
func (s *Store) ListSubmissionsForExam(examID string) ([]model.Submission, error) {
	rows, err := s.db.Query(
		`SELECT id, student_id, student_name, exam_id, answers_json, score, submitted_at, graded_at, graded_by
		 FROM submissions WHERE exam_id = ? ORDER BY submitted_at DESC, id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpdateGrade overwrites a submission's answers, score, and grading stamps.
// Re-grading replaces the previous grade; no history is kept.
func (s *Store) UpdateGrade(sub model.Submission) error {
	aj, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE submissions SET answers_json = ?, score = ?, graded_at = ?, graded_by = ? WHERE id = ?`,
		string(aj), sub.Score, sub.GradedAt, sub.GradedBy, sub.ID,
	)
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

func scanSubmission(row rowScanner) (model.Submission, error) {
	var sub model.Submission
	var ajson string
	var gradedAt sql.NullTime
	err := row.Scan(&sub.ID, &sub.StudentID, &sub.StudentName, &sub.ExamID, &ajson,
		&sub.Score, &sub.SubmittedAt, &gradedAt, &sub.GradedBy)
	if err == sql.ErrNoRows {
		return model.Submission{}, ErrNotFound
	}
	if err != nil {
		return model.Submission{}, err
	}
	if gradedAt.Valid {
		t := gradedAt.Time
		sub.GradedAt = &t
	}
	if err := json.Unmarshal([]byte(ajson), &sub.Answers); err != nil {
		return model.Submission{}, fmt.Errorf("unmarshal answers for submission %s: %w", sub.ID, err)
	}
	return sub, nil
}
