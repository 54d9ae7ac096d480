// Package exam implements the two exam workflows: composition (preview,
// edit, save) and submission handling (submit, grade, results). Both are
// stateless between calls; every read goes back to the store.
package exam

import (
	"context"

	"github.com/pkandie/examhall/internal/model"
	"github.com/pkandie/examhall/internal/question"
	"github.com/pkandie/examhall/internal/store"
)

// Defaults applied when a preview request leaves fields blank.
const (
	DefaultSubject    = "General Knowledge"
	DefaultDifficulty = "Easy"
	DefaultCount      = 5
)

// Service orchestrates exam composition and submission grading.
type Service struct {
	store     *store.Store
	questions *question.Service
}

// New creates a Service.
func New(st *store.Store, qs *question.Service) *Service {
	return &Service{store: st, questions: qs}
}

// Preview fetches candidate questions for inspection and editing. Nothing is
// persisted; provider failures are absorbed by the question service's
// fallback, so Preview cannot fail.
func (s *Service) Preview(ctx context.Context, subject string, count int, difficulty string) ([]model.Question, string) {
	if subject == "" {
		subject = DefaultSubject
	}
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	if count == 0 {
		count = DefaultCount
	}
	return s.questions.Preview(ctx, subject, count, difficulty)
}

// SaveParams carries the fields needed to persist a reviewed exam.
type SaveParams struct {
	Title      string
	Subject    string
	Difficulty string
	TimeLimit  int
	Questions  []model.Question
	CreatedBy  string
}

// Save validates and persists a reviewed exam, returning it with its
// assigned identifier. A question whose correct answer was left unset
// defaults to its first option.
func (s *Service) Save(p SaveParams) (model.Exam, error) {
	switch {
	case p.Title == "":
		return model.Exam{}, validationErr("title")
	case p.Subject == "":
		return model.Exam{}, validationErr("subject")
	case p.Difficulty == "":
		return model.Exam{}, validationErr("difficulty")
	case p.CreatedBy == "":
		return model.Exam{}, validationErr("created_by")
	case len(p.Questions) == 0:
		return model.Exam{}, validationErr("questions")
	case p.TimeLimit < 0:
		return model.Exam{}, validationErr("time_limit")
	}

	questions := make([]model.Question, 0, len(p.Questions))
	for _, q := range p.Questions {
		if q.Text == "" {
			return model.Exam{}, validationErr("questions")
		}
		q = question.Normalize(q)
		if q.Answer == "" {
			q.Answer = q.Options[0]
		}
		questions = append(questions, q)
	}

	return s.store.CreateExam(model.Exam{
		Title:      p.Title,
		Subject:    p.Subject,
		Difficulty: p.Difficulty,
		TimeLimit:  p.TimeLimit,
		Questions:  questions,
		CreatedBy:  p.CreatedBy,
	})
}

// Get returns the full authoring view of an exam, answers included.
func (s *Service) Get(id string) (model.Exam, error) {
	return s.store.GetExam(id)
}

// List returns the authoring view of all exams, newest first.
func (s *Service) List() ([]model.Exam, error) {
	return s.store.ListExams()
}

// Delete removes an exam by id; store.ErrNotFound if it does not exist.
// Submissions against the exam are not cascade-deleted.
func (s *Service) Delete(id string) error {
	return s.store.DeleteExam(id)
}

// PublicGet returns the student-facing view of one exam, answers stripped.
func (s *Service) PublicGet(id string) (model.PublicExam, error) {
	e, err := s.store.GetExam(id)
	if err != nil {
		return model.PublicExam{}, err
	}
	return e.Public(), nil
}

// PublicList returns the student-facing view of all exams.
func (s *Service) PublicList() ([]model.PublicExam, error) {
	exams, err := s.store.ListExams()
	if err != nil {
		return nil, err
	}
	public := make([]model.PublicExam, 0, len(exams))
	for _, e := range exams {
		public = append(public, e.Public())
	}
	return public, nil
}
