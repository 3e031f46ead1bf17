package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/service"
	customError "github.com/segyhp/club-engine/pkg/errors"
	"github.com/segyhp/club-engine/pkg/response"
)

type claimsKey struct{}

// ClaimsFrom returns the identity attached by AuthMiddleware, if any.
func ClaimsFrom(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*service.Claims)
	return claims, ok && claims != nil
}

func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

type AuthHandler struct {
	auth       *service.AuthService
	validator  *Validator
	cookieName string
	secure     bool
}

func NewAuthHandler(auth *service.AuthService, validator *Validator, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		validator:  validator,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Middleware attaches token claims to the request context. Missing or
// invalid tokens leave the request anonymous.
func (h *AuthHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := h.token(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := h.auth.ParseToken(raw)
		if err != nil {
			logger.Debug("auth", "Ignoring invalid token on %s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (h *AuthHandler) token(r *http.Request) string {
	if c, err := r.Cookie(h.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	token, member, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.Expiration() / time.Second),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	response.Success(w, map[string]interface{}{
		"token":  token,
		"member": domain.NewMemberResponse(member),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	response.NoContent(w)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, domain.NewMemberResponse(member))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		response.FromError(w, customError.WrapUnauthorized("authentication required"))
		return
	}

	member, err := h.auth.Me(r.Context(), claims)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewMemberResponse(member))
}
