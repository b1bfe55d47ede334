package devstub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/Adams521/everything-gift/internal/models"
)

var ErrUserExists = errors.New("user already exists")

type account struct {
	user         models.User
	email        string
	passwordHash []byte
}

// Accounts is an in-memory user registry with bcrypt password hashes.
type Accounts struct {
	mu     sync.RWMutex
	users  map[string]account
	tokens *TokenManager
}

func NewAccounts(tokens *TokenManager) *Accounts {
	return &Accounts{users: make(map[string]account), tokens: tokens}
}

// Create adds a user with the given role.
func (a *Accounts) Create(username, email, password string, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[username]; ok {
		return models.User{}, ErrUserExists
	}
	user := models.User{Username: username, Role: role}
	a.users[username] = account{user: user, email: email, passwordHash: hash}
	return user, nil
}

// Authenticate returns the user when password matches.
func (a *Accounts) Authenticate(username, password string) (models.User, bool) {
	a.mu.RLock()
	acc, ok := a.users[username]
	a.mu.RUnlock()
	if !ok {
		return models.User{}, false
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return models.User{}, false
	}
	return acc.user, true
}

func (a *Accounts) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/auth/register", a.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", a.handleLogin)
}

func (a *Accounts) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "请求格式错误")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "用户名和密码不能为空")
		return
	}
	if len(req.Password) < 6 {
		writeDetail(w, http.StatusBadRequest, "密码长度至少6位")
		return
	}
	var email string
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}

	user, err := a.Create(username, email, req.Password, models.RoleMember)
	switch {
	case errors.Is(err, ErrUserExists):
		writeDetail(w, http.StatusBadRequest, "用户名已存在")
		return
	case err != nil:
		slog.Error("Create user failed", "username", username, "error", err)
		writeDetail(w, http.StatusInternalServerError, "注册失败")
		return
	}

	slog.Info("User registered", "username", username)
	writeJSON(w, http.StatusCreated, models.AuthResponse{User: &user})
}

func (a *Accounts) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "请求格式错误")
		return
	}

	user, ok := a.Authenticate(strings.TrimSpace(req.Username), req.Password)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	token, err := a.tokens.Generate(user)
	if err != nil {
		slog.Error("Token generation failed", "username", user.Username, "error", err)
		writeDetail(w, http.StatusInternalServerError, "登录失败")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: token, TokenType: "bearer", User: &user})
}
