package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkandie/examhall/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string        `json:"token"`
	Account model.Account `json:"account"`
}

func (h *Handler) handleTeacherLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	acct, err := h.store.GetTeacherByEmail(req.Email)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.finishLogin(w, acct, req.Password)
}

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	acct, err := h.store.GetAdminByUsername(req.Username)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.finishLogin(w, acct, req.Password)
}

// finishLogin verifies the password and mints a token. A missing account and
// a wrong password produce the same response, so logins cannot be used to
// probe which emails are registered.
func (h *Handler) finishLogin(w http.ResponseWriter, acct *model.Account, password string) {
	if acct == nil || bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.mintToken(acct)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Account: *acct})
}

func (h *Handler) mintToken(acct *model.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  acct.ID,
		"role": string(acct.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(h.config.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// requireAuth checks the Bearer token and loads the account into the request
// context. Requests from roles outside allowed get a 403.
func (h *Handler) requireAuth(allowed ...model.AccountRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct, err := h.authenticate(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			permitted := false
			for _, role := range allowed {
				if acct.Role == role {
					permitted = true
					break
				}
			}
			if !permitted {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r.WithContext(model.ContextWithAccount(r.Context(), acct)))
		})
	}
}

func (h *Handler) authenticate(r *http.Request) (*model.Account, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(h.config.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	var acct *model.Account
	switch model.AccountRole(role) {
	case model.RoleTeacher:
		acct, err = h.store.GetTeacherByID(sub)
	case model.RoleAdmin:
		acct, err = h.store.GetAdminByID(sub)
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, fmt.Errorf("account %s not found", sub)
	}
	return acct, nil
}

type registerTeacherRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleRegisterTeacher(w http.ResponseWriter, r *http.Request) {
	var req registerTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	existing, err := h.store.GetTeacherByEmail(req.Email)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "teacher already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	acct, err := h.store.CreateTeacher(model.Account{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]model.Account{"teacher": acct})
}
