package store

import (
	"errors"
	"testing"
	"time"

	"github.com/pkandie/examhall/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestExam(t *testing.T, s *Store, title string) model.Exam {
	t.Helper()
	e, err := s.CreateExam(model.Exam{
		Title:      title,
		Subject:    "General Knowledge",
		Difficulty: "Easy",
		TimeLimit:  30,
		Questions: []model.Question{
			{Text: "Capital of France?", Answer: "Paris", Options: []string{"Paris", "Lyon", "Nice", "Lille"}},
			{Text: "2 + 2?", Answer: "4", Options: []string{"3", "4", "5", "6"}},
		},
		CreatedBy: "teacher-1",
	})
	if err != nil {
		t.Fatalf("insertTestExam: %v", err)
	}
	return e
}

func strptr(s string) *string { return &s }

func TestExamCRUD(t *testing.T) {
	s := newTestStore(t)

	// Empty DB should return zero count and empty list.
	count, err := s.ExamCount()
	if err != nil {
		t.Fatalf("ExamCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 exams, got %d", count)
	}

	list, err := s.ListExams()
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	// Insert and retrieve.
	created := insertTestExam(t, s, "Geo Quiz")
	if created.ID == "" {
		t.Fatal("expected assigned ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := s.GetExam(created.ID)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if got.Title != "Geo Quiz" {
		t.Errorf("expected title 'Geo Quiz', got %q", got.Title)
	}
	if got.TimeLimit != 30 {
		t.Errorf("expected time limit 30, got %d", got.TimeLimit)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got.Questions))
	}
	if got.Questions[0].Answer != "Paris" {
		t.Errorf("expected answer 'Paris', got %q", got.Questions[0].Answer)
	}
	if len(got.Questions[0].Options) != 4 {
		t.Errorf("expected 4 options, got %d", len(got.Questions[0].Options))
	}

	// Not found.
	_, err = s.GetExam("no-such-exam")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Multiple exams.
	insertTestExam(t, s, "Second Quiz")
	list, err = s.ListExams()
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 exams, got %d", len(list))
	}

	count, err = s.ExamCount()
	if err != nil {
		t.Fatalf("ExamCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestDeleteExam(t *testing.T) {
	s := newTestStore(t)
	e := insertTestExam(t, s, "Doomed")

	if err := s.DeleteExam(e.ID); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}
	_, err := s.GetExam(e.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again reports not found rather than succeeding silently.
	if err := s.DeleteExam(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStudentRegistrationIdempotent(t *testing.T) {
	s := newTestStore(t)

	first, err := s.CreateStudent(model.Student{Name: "Ada", Email: "ada@example.com", Class: "10A"})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected assigned ID")
	}

	// Registering the same email again returns the existing record.
	second, err := s.CreateStudent(model.Student{Name: "Ada Again", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreateStudent repeat: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same ID for repeated email, got %q and %q", first.ID, second.ID)
	}
	if second.Name != "Ada" {
		t.Errorf("expected original name preserved, got %q", second.Name)
	}

	count, err := s.StudentCount()
	if err != nil {
		t.Fatalf("StudentCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 student, got %d", count)
	}

	// A different email creates a new record.
	third, err := s.CreateStudent(model.Student{Name: "Grace", Email: "grace@example.com"})
	if err != nil {
		t.Fatalf("CreateStudent second student: %v", err)
	}
	if third.ID == first.ID {
		t.Error("expected distinct ID for distinct email")
	}

	got, err := s.GetStudentByEmail("grace@example.com")
	if err != nil {
		t.Fatalf("GetStudentByEmail: %v", err)
	}
	if got.Name != "Grace" {
		t.Errorf("expected name 'Grace', got %q", got.Name)
	}

	_, err = s.GetStudent("no-such-student")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	s := newTestStore(t)
	e := insertTestExam(t, s, "Geo Quiz")

	sub, err := s.CreateSubmission(model.Submission{
		StudentID:   "student-1",
		StudentName: "Ada",
		ExamID:      e.ID,
		Answers: []model.Answer{
			{Question: "Capital of France?", SelectedOption: strptr("Paris"), CorrectAnswer: strptr("Paris")},
			{Question: "2 + 2?", SelectedOption: strptr("5"), CorrectAnswer: strptr("4")},
		},
	})
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if sub.ID == "" {
		t.Fatal("expected assigned ID")
	}

	got, err := s.GetSubmission(sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if got.GradedAt != nil {
		t.Error("expected ungraded submission")
	}
	if len(got.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(got.Answers))
	}
	if got.Answers[0].IsCorrect != nil {
		t.Error("expected nil is_correct before grading")
	}

	// Grade and store results.
	yes, no := true, false
	got.Answers[0].IsCorrect = &yes
	got.Answers[1].IsCorrect = &no
	got.Score = 1
	now := time.Now()
	got.GradedAt = &now
	got.GradedBy = "Teacher"
	if err := s.UpdateGrade(got); err != nil {
		t.Fatalf("UpdateGrade: %v", err)
	}

	graded, err := s.GetStudentSubmission("student-1", e.ID)
	if err != nil {
		t.Fatalf("GetStudentSubmission: %v", err)
	}
	if graded.Score != 1 {
		t.Errorf("expected score 1, got %d", graded.Score)
	}
	if graded.GradedAt == nil {
		t.Error("expected graded_at to be set")
	}
	if graded.GradedBy != "Teacher" {
		t.Errorf("expected graded_by 'Teacher', got %q", graded.GradedBy)
	}
	if graded.Answers[0].IsCorrect == nil || !*graded.Answers[0].IsCorrect {
		t.Error("expected first answer marked correct")
	}

	subs, err := s.ListSubmissionsForExam(e.ID)
	if err != nil {
		t.Fatalf("ListSubmissionsForExam: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}

	// Updating a missing submission reports not found.
	missing := graded
	missing.ID = "no-such-submission"
	if err := s.UpdateGrade(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAccounts(t *testing.T) {
	s := newTestStore(t)

	// Missing accounts come back nil without an error.
	acct, err := s.GetTeacherByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("GetTeacherByEmail: %v", err)
	}
	if acct != nil {
		t.Error("expected nil for missing teacher")
	}

	teacher, err := s.CreateTeacher(model.Account{
		Name:         "Mr. Chips",
		Email:        "chips@example.com",
		Username:     "chips",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}
	if teacher.Role != model.RoleTeacher {
		t.Errorf("expected teacher role, got %q", teacher.Role)
	}

	got, err := s.GetTeacherByID(teacher.ID)
	if err != nil {
		t.Fatalf("GetTeacherByID: %v", err)
	}
	if got == nil || got.Email != "chips@example.com" {
		t.Errorf("unexpected teacher: %+v", got)
	}

	teachers, err := s.ListTeachers()
	if err != nil {
		t.Fatalf("ListTeachers: %v", err)
	}
	if len(teachers) != 1 {
		t.Fatalf("expected 1 teacher, got %d", len(teachers))
	}

	count, err := s.AdminCount()
	if err != nil {
		t.Fatalf("AdminCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 admins, got %d", count)
	}

	admin, err := s.CreateAdmin(model.Account{Username: "admin", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("expected admin role, got %q", admin.Role)
	}

	gotAdmin, err := s.GetAdminByUsername("admin")
	if err != nil {
		t.Fatalf("GetAdminByUsername: %v", err)
	}
	if gotAdmin == nil || gotAdmin.ID != admin.ID {
		t.Errorf("unexpected admin: %+v", gotAdmin)
	}

	count, _ = s.AdminCount()
	if count != 1 {
		t.Errorf("expected 1 admin, got %d", count)
	}
}

func TestExportExamResults(t *testing.T) {
	s := newTestStore(t)
	e := insertTestExam(t, s, "Geo Quiz")

	_, err := s.CreateSubmission(model.Submission{
		StudentID:   "student-1",
		StudentName: "Ada",
		ExamID:      e.ID,
		Answers: []model.Answer{
			{Question: "Capital of France?", SelectedOption: strptr("Paris"), CorrectAnswer: strptr("Paris")},
		},
	})
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	export, err := s.ExportExamResults(e.ID)
	if err != nil {
		t.Fatalf("ExportExamResults: %v", err)
	}
	if export.ExamID != e.ID {
		t.Errorf("expected exam ID %q, got %q", e.ID, export.ExamID)
	}
	if export.Title != "Geo Quiz" {
		t.Errorf("expected title 'Geo Quiz', got %q", export.Title)
	}
	if len(export.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(export.Results))
	}
	r := export.Results[0]
	if r.StudentName != "Ada" {
		t.Errorf("expected student 'Ada', got %q", r.StudentName)
	}
	if r.Total != 1 {
		t.Errorf("expected total 1, got %d", r.Total)
	}
	if len(r.Answers) != 1 || r.Answers[0].Question != "Capital of France?" {
		t.Errorf("unexpected answers: %+v", r.Answers)
	}

	_, err = s.ExportExamResults("no-such-exam")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
