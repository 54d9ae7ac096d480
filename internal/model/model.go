package model

import (
	"context"
	"time"
)

// AccountRole represents an authenticated account's access level.
type AccountRole string

const (
	// RoleTeacher is a teacher account role.
	RoleTeacher AccountRole = "teacher"
	// RoleAdmin is an admin account role.
	RoleAdmin AccountRole = "admin"
)

// Account represents an authenticated teacher or admin.
type Account struct {
	ID           string      `json:"id"`
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email,omitempty"`
	Username     string      `json:"username,omitempty"`
	PasswordHash string      `json:"-"`
	Role         AccountRole `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

type accountCtxKey struct{}

// ContextWithAccount stores an authenticated account in the request context.
func ContextWithAccount(ctx context.Context, a *Account) context.Context {
	return context.WithValue(ctx, accountCtxKey{}, a)
}

// AccountFromContext retrieves the authenticated account from context, or nil.
func AccountFromContext(ctx context.Context) *Account {
	a, _ := ctx.Value(accountCtxKey{}).(*Account)
	return a
}

// Question is a multiple-choice question. The correct answer is identified
// by value, not by position: Options always contains Answer as one element.
type Question struct {
	Text    string   `json:"question"`
	Answer  string   `json:"answer"`
	Options []string `json:"options"`
}

// PublicQuestion is the student-facing view of a question, with the
// correct answer stripped.
type PublicQuestion struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// Public returns the question without its answer.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{Text: q.Text, Options: q.Options}
}

// Exam is a titled, timed collection of multiple-choice questions.
// The question count is always len(Questions); it is never stored separately.
type Exam struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Subject    string     `json:"subject"`
	Difficulty string     `json:"difficulty"`
	TimeLimit  int        `json:"time_limit"` // minutes, 0 = untimed
	Questions  []Question `json:"questions"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// PublicExam is the student-facing view of an exam with answers stripped.
type PublicExam struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Subject    string           `json:"subject"`
	Difficulty string           `json:"difficulty"`
	TimeLimit  int              `json:"time_limit"`
	Questions  []PublicQuestion `json:"questions"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Public returns the exam view safe to show students.
func (e Exam) Public() PublicExam {
	pub := PublicExam{
		ID:         e.ID,
		Title:      e.Title,
		Subject:    e.Subject,
		Difficulty: e.Difficulty,
		TimeLimit:  e.TimeLimit,
		CreatedAt:  e.CreatedAt,
	}
	for _, q := range e.Questions {
		pub.Questions = append(pub.Questions, q.Public())
	}
	return pub
}

// Student represents a registered student.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Class     string    `json:"class,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer is one answered question within a submission. SelectedOption is nil
// when the student left the question blank; CorrectAnswer is nil when the
// question text did not match any question on the exam at submission time.
// IsCorrect stays nil until the submission is graded.
type Answer struct {
	Question       string  `json:"question"`
	SelectedOption *string `json:"selected_option"`
	CorrectAnswer  *string `json:"correct_answer"`
	IsCorrect      *bool   `json:"is_correct"`
}

// Submission is one student's recorded answers to one exam.
type Submission struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	ExamID      string     `json:"exam_id"`
	Answers     []Answer   `json:"answers"`
	Score       int        `json:"score"`
	SubmittedAt time.Time  `json:"submitted_at"`
	GradedAt    *time.Time `json:"graded_at,omitempty"`
	GradedBy    string     `json:"graded_by,omitempty"`
}

// Graded reports whether the submission has been graded at least once.
func (s Submission) Graded() bool {
	return s.GradedAt != nil
}

// ServerConfig holds runtime parameters set via CLI flags.
type ServerConfig struct {
	Addr            string
	ProviderURL     string
	ProviderTimeout time.Duration
	LLMURL          string // empty disables the LLM question source
	LLMKey          string
	LLMModel        string
	JWTSecret       string
	TokenTTL        time.Duration
}
