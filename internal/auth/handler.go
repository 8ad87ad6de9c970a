package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vanzari-imobiliare/api/internal/logging"
	"github.com/vanzari-imobiliare/api/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	Repository   Repository
	Tokens       *Tokens
	CookieSecure bool
}

func NewHandler(db *gorm.DB, tokens *Tokens, cookieSecure bool) *Handler {
	return &Handler{
		Repository:   NewRepository(db),
		Tokens:       tokens,
		CookieSecure: cookieSecure,
	}
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	user, err := h.Repository.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	access, err := h.issueTokens(r.Context(), w, user, "")
	if err != nil {
		logging.FromContext(r.Context()).Error("issue tokens", "user_id", user.ID, "err", err)
		utils.WriteError(w, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.tokenResponse(access, user.Role))
}

// POST /auth/refresh rotates the refresh cookie and returns a new access token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		utils.WriteError(w, http.StatusUnauthorized, "no refresh token")
		return
	}
	ctx := r.Context()
	hash := hashRaw(c.Value)

	cur, err := h.Repository.FindRefreshToken(ctx, hash)
	if err != nil {
		h.clearRTCookie(w)
		utils.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	now := time.Now()
	if cur.RevokedAt != nil {
		// A rotated token came back: whoever holds its successor may not be
		// the user, so the whole login is cut off.
		h.revokeFamily(ctx, cur, now)
		h.clearRTCookie(w)
		utils.WriteError(w, http.StatusUnauthorized, "refresh token reused")
		return
	}
	if now.After(cur.ExpiresAt) {
		h.clearRTCookie(w)
		utils.WriteError(w, http.StatusUnauthorized, "expired refresh token")
		return
	}
	if err := h.Repository.RevokeRefreshToken(ctx, hash, now); err != nil {
		h.clearRTCookie(w)
		if errors.Is(err, ErrTokenRevoked) {
			utils.WriteError(w, http.StatusUnauthorized, "refresh token already used")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "could not rotate refresh token")
		return
	}

	// Reload so a role change takes effect on the next access token.
	user, err := h.Repository.FindByID(ctx, cur.UserID)
	if err != nil {
		h.clearRTCookie(w)
		utils.WriteError(w, http.StatusUnauthorized, "user no longer exists")
		return
	}
	access, err := h.issueTokens(ctx, w, user, cur.FamilyID)
	if err != nil {
		h.clearRTCookie(w)
		utils.WriteError(w, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.tokenResponse(access, user.Role))
}

func (h *Handler) revokeFamily(ctx context.Context, rt *RefreshToken, at time.Time) {
	log := logging.FromContext(ctx)
	log.Warn("refresh token reuse, revoking family", "user_id", rt.UserID, "family_id", rt.FamilyID)
	if err := h.Repository.RevokeFamily(ctx, rt.FamilyID, at); err != nil {
		log.Error("revoke refresh token family", "family_id", rt.FamilyID, "err", err)
	}
}

// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
		if err := h.Repository.RevokeRefreshToken(r.Context(), hashRaw(c.Value), time.Now()); err != nil && !errors.Is(err, ErrTokenRevoked) {
			logging.FromContext(r.Context()).Warn("revoke refresh token", "err", err)
		}
	}
	h.clearRTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// GET /me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Repository.FindByID(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	user, temp, err := h.register(r.Context(), req)
	switch {
	case errors.Is(err, ErrEmailTaken):
		utils.WriteError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		logging.FromContext(r.Context()).Error("create user", "err", err)
		utils.WriteError(w, http.StatusInternalServerError, "could not create user")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, CreateUserResponse{User: user, TemporaryPassword: temp})
}

var ErrEmailTaken = errors.New("email already registered")

func (h *Handler) register(ctx context.Context, req CreateUserRequest) (*User, string, error) {
	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, "", err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.Repository.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	password, temp := req.Password, ""
	if password == "" {
		if temp, err = utils.GenerateTemporaryPassword(); err != nil {
			return nil, "", err
		}
		password = temp
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &User{Email: email, Name: strings.TrimSpace(req.Name), PasswordHash: hash, Role: role}
	if err := h.Repository.Save(ctx, u); err != nil {
		return nil, "", err
	}
	return u, temp, nil
}

// EnsureAdmin creates the first admin account when the users table is empty.
func (h *Handler) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := h.Repository.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, _, err = h.register(ctx, CreateUserRequest{Email: email, Name: "Administrator", Password: password, Role: string(RoleAdmin)})
	return err
}
