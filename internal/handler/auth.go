package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tonythefreedom/noble-back/internal/ctxkeys"
	"github.com/tonythefreedom/noble-back/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin and issues a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "잘못된 요청 형식입니다.")
		return
	}

	user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondDetail(w, http.StatusUnauthorized, "잘못된 사용자명 또는 비밀번호입니다.")
			return
		}
		if errors.Is(err, service.ErrNotAdmin) {
			respondDetail(w, http.StatusForbidden, "관리자 권한이 필요합니다.")
			return
		}
		slog.Error("login failed", "error", err, "username", req.Username)
		respondDetail(w, http.StatusInternalServerError, "로그인 처리 중 오류가 발생했습니다.")
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		respondDetail(w, http.StatusInternalServerError, "로그인 처리 중 오류가 발생했습니다.")
		return
	}

	respondMessage(w, http.StatusOK, "로그인 성공", map[string]any{
		"token": token,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout is stateless; the client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "로그아웃 성공", nil)
}

// Verify echoes the decoded claims of a valid token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Claims(r.Context())

	respondData(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"username": claims.Username,
			"user_id":  claims.UserID,
			"role":     claims.Role,
		},
	})
}
