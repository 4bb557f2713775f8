package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/minhle/user-admin-api/internal/api/middleware"
	"github.com/minhle/user-admin-api/internal/config"
	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Account AccountResponse `json:"account"`
	User    UserResponse    `json:"user"`
}

type AuthResponse struct {
	Message      string       `json:"message"`
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" || req.Name == "" {
		http.Error(w, "Username, email, password and name are required", http.StatusBadRequest)
		return
	}

	account, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      domain.Role(req.Role),
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			http.Error(w, "Username or email already in use", http.StatusConflict)
			return
		}
		if errors.Is(err, domain.ErrInvalidRole) {
			http.Error(w, "Invalid role", http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [auth.Register] registration failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := RegisterResponse{
		Account: *newAccountResponse(account),
		User:    *newUserResponse(account.User),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		// Bad secret and missing account are logged as distinct kinds but
		// collapse to one externally visible outcome: never reveal whether a
		// username exists.
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrAccountNotFound) {
			log.Printf("ERROR [auth.Login] rejected login for %q: %v", req.Login, err)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			log.Printf("ERROR [auth.Login] session store unavailable: %v", err)
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Printf("ERROR [auth.Login] login failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setAuthCookies(w, h.cfg, result.Tokens)

	resp := AuthResponse{
		Message:      "Login successful",
		User:         *newUserResponse(result.User),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	rc, ok := middleware.CurrentRefresh(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), rc.Claims, rc.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			log.Printf("ERROR [auth.Refresh] rejected refresh for sid %s: %v", rc.Claims.SessionID, err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			log.Printf("ERROR [auth.Refresh] session store unavailable: %v", err)
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Printf("ERROR [auth.Refresh] refresh failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setAuthCookies(w, h.cfg, pair)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":      "Token refreshed",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), user.SessionID); err != nil {
		log.Printf("ERROR [auth.Logout] logout failed: %v", err)
		if errors.Is(err, domain.ErrStoreUnavailable) {
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	clearAuthCookies(w, h.cfg)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.Me(r.Context(), authUser.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [auth.Me] lookup failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newUserResponse(user))
}
