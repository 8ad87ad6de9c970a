package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	RefreshTTL    = 30 * 24 * time.Hour
	RefreshCookie = "rt"
)

func genRaw() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashRaw(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// The cookie is scoped to /auth so only refresh and logout ever see it.
func (h *Handler) setRTCookie(w http.ResponseWriter, raw string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    raw,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func (h *Handler) clearRTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// issueTokens signs an access token and stores a new refresh token of the
// given family, setting it as a cookie. An empty family starts a new one.
func (h *Handler) issueTokens(ctx context.Context, w http.ResponseWriter, u *User, family string) (string, error) {
	access, err := h.Tokens.Generate(u.ID, u.Role)
	if err != nil {
		return "", err
	}
	raw, err := genRaw()
	if err != nil {
		return "", err
	}
	if family == "" {
		family = uuid.NewString()
	}
	rt := RefreshToken{
		UserID:    u.ID,
		FamilyID:  family,
		Hash:      hashRaw(raw),
		Role:      u.Role,
		ExpiresAt: time.Now().Add(RefreshTTL),
	}
	if err := h.Repository.CreateRefreshToken(ctx, &rt); err != nil {
		return "", err
	}
	h.setRTCookie(w, raw, rt.ExpiresAt)
	return access, nil
}

func (h *Handler) tokenResponse(access string, role Role) TokenResponse {
	return TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.Tokens.TTL().Seconds()),
		Role:        role,
	}
}
