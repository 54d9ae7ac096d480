package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkandie/examhall/internal/exam"
	"github.com/pkandie/examhall/internal/model"
	"github.com/pkandie/examhall/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	exams  *exam.Service
	config model.ServerConfig
}

// New creates a new Handler.
func New(st *store.Store, svc *exam.Service, cfg model.ServerConfig) *Handler {
	return &Handler{store: st, exams: svc, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", h.handleAdminLogin)
		r.Post("/teachers/login", h.handleTeacherLogin)

		// Student-facing routes carry no authentication; students are
		// identified by their registered record, not by credentials.
		r.Post("/students/register", h.handleRegisterStudent)
		r.Get("/student/exams", h.handlePublicExams)
		r.Get("/student/exams/{examID}", h.handlePublicExam)
		r.Post("/submissions", h.handleSubmit)
		r.Get("/submissions/result/{studentID}/{examID}", h.handleStudentResult)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth(model.RoleTeacher, model.RoleAdmin))
			r.Post("/exams/preview", h.handlePreview)
			r.Post("/exams", h.handleSaveExam)
			r.Get("/exams", h.handleListExams)
			r.Get("/exams/{examID}", h.handleGetExam)
			r.Delete("/exams/{examID}", h.handleDeleteExam)
			r.Post("/submissions/{submissionID}/grade", h.handleGrade)
			r.Get("/submissions/exam/{examID}", h.handleExamSubmissions)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth(model.RoleAdmin))
			r.Post("/teachers/register", h.handleRegisterTeacher)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type previewRequest struct {
	Subject    string `json:"subject"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
}

type previewResponse struct {
	Questions []model.Question `json:"questions"`
	Source    string           `json:"source"`
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	questions, source := h.exams.Preview(r.Context(), req.Subject, req.Count, req.Difficulty)
	writeJSON(w, http.StatusOK, previewResponse{Questions: questions, Source: source})
}

type saveExamRequest struct {
	Title      string           `json:"title"`
	Subject    string           `json:"subject"`
	Difficulty string           `json:"difficulty"`
	TimeLimit  int              `json:"time_limit"`
	Questions  []model.Question `json:"questions"`
	CreatedBy  string           `json:"created_by"`
}

func (h *Handler) handleSaveExam(w http.ResponseWriter, r *http.Request) {
	var req saveExamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		if acct := model.AccountFromContext(r.Context()); acct != nil {
			createdBy = acct.ID
		}
	}

	e, err := h.exams.Save(exam.SaveParams{
		Title:      req.Title,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		TimeLimit:  req.TimeLimit,
		Questions:  req.Questions,
		CreatedBy:  createdBy,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]model.Exam{"exam": e})
}

func (h *Handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.exams.List()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.Exam{"exams": exams})
}

func (h *Handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	e, err := h.exams.Get(chi.URLParam(r, "examID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.Exam{"exam": e})
}

func (h *Handler) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	if err := h.exams.Delete(chi.URLParam(r, "examID")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "exam deleted"})
}

func (h *Handler) handlePublicExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.exams.PublicList()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.PublicExam{"exams": exams})
}

func (h *Handler) handlePublicExam(w http.ResponseWriter, r *http.Request) {
	e, err := h.exams.PublicGet(chi.URLParam(r, "examID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.PublicExam{"exam": e})
}

type registerStudentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Class string `json:"class"`
}

func (h *Handler) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid field: name")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid field: email")
		return
	}

	st, err := h.store.CreateStudent(model.Student{
		Name:  req.Name,
		Email: req.Email,
		Class: req.Class,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.Student{"student": st})
}

type submitRequest struct {
	StudentID   string                 `json:"student_id"`
	StudentName string                 `json:"student_name"`
	ExamID      string                 `json:"exam_id"`
	Answers     []exam.SubmittedAnswer `json:"answers"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.exams.Submit(exam.SubmitParams{
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		ExamID:      req.ExamID,
		Answers:     req.Answers,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]model.Submission{"submission": sub})
}

type gradeRequest struct {
	GradedBy string `json:"graded_by"`
}

func (h *Handler) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	// An empty body is fine; the grader then defaults.
	_ = decodeJSON(r, &req)

	gradedBy := req.GradedBy
	if gradedBy == "" {
		if acct := model.AccountFromContext(r.Context()); acct != nil {
			gradedBy = acct.Name
		}
	}

	sub, err := h.exams.Grade(chi.URLParam(r, "submissionID"), gradedBy)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.Submission{"submission": sub})
}

func (h *Handler) handleStudentResult(w http.ResponseWriter, r *http.Request) {
	sub, err := h.exams.StudentResult(chi.URLParam(r, "studentID"), chi.URLParam(r, "examID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.Submission{"submission": sub})
}

func (h *Handler) handleExamSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.exams.SubmissionsForExam(chi.URLParam(r, "examID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.Submission{"submissions": subs})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var ve *exam.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
