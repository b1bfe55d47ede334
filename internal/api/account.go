package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Adams521/everything-gift/internal/models"
	"github.com/Adams521/everything-gift/internal/services"
	"github.com/Adams521/everything-gift/internal/validation"
	"github.com/Adams521/everything-gift/internal/view"
)

type registerForm struct {
	Username        string `form:"username" validate:"required"`
	Email           string `form:"email" validate:"omitempty,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// registerMessage picks the single message shown for a failed register
// form. Missing fields win over a mismatch, which wins over length.
func registerMessage(verr *validation.Error) string {
	switch {
	case verr.Failed("username", "required"), verr.Failed("password", "required"):
		return "请填写用户名和密码"
	case verr.Failed("confirm_password", "eqfield"):
		return "两次输入的密码不一致"
	case verr.Failed("password", "min"):
		return "密码长度至少6位"
	case verr.Failed("email", "email"):
		return "请输入有效的邮箱地址"
	default:
		return "注册失败"
	}
}

// failureMessage prefers the backend's own detail and falls back to
// fallback for everything else.
func failureMessage(err error, fallback string) string {
	var be *services.BackendError
	if errors.As(err, &be) && be.Detail != "" {
		return be.Detail
	}
	return fallback
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, view.PageRegister, view.RegisterPage{Layout: h.layout(r, "注册")})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Render(w, http.StatusBadRequest, view.PageRegister, view.RegisterPage{
			Layout: h.layout(r, "注册"),
			Error:  "注册失败",
		})
		return
	}

	form := registerForm{
		Username:        strings.TrimSpace(r.PostForm.Get("username")),
		Email:           strings.TrimSpace(r.PostForm.Get("email")),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}
	page := view.RegisterPage{
		Layout:   h.layout(r, "注册"),
		Username: form.Username,
		Email:    form.Email,
	}

	if err := h.validate.Validate(form); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			page.Error = registerMessage(verr)
		} else {
			page.Error = "注册失败"
		}
		h.render.Render(w, http.StatusUnprocessableEntity, view.PageRegister, page)
		return
	}

	req := models.RegisterRequest{Username: form.Username, Password: form.Password}
	if form.Email != "" {
		req.Email = &form.Email
	}

	if _, err := h.svc.Register(r.Context(), req); err != nil {
		slog.Warn("Registration failed", "username", form.Username, "error", err)
		page.Error = failureMessage(err, "注册失败")
		h.render.Render(w, http.StatusOK, view.PageRegister, page)
		return
	}

	slog.Info("User registered", "username", form.Username)
	http.Redirect(w, r, "/login?registered=true", http.StatusSeeOther)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, view.PageLogin, view.LoginPage{
		Layout:     h.layout(r, "登录"),
		Registered: r.URL.Query().Get("registered") == "true",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Render(w, http.StatusBadRequest, view.PageLogin, view.LoginPage{
			Layout: h.layout(r, "登录"),
			Error:  "登录失败",
		})
		return
	}

	form := loginForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	page := view.LoginPage{Layout: h.layout(r, "登录"), Username: form.Username}

	if err := h.validate.Validate(form); err != nil {
		page.Error = "请填写用户名和密码"
		h.render.Render(w, http.StatusUnprocessableEntity, view.PageLogin, page)
		return
	}

	resp, err := h.svc.Login(r.Context(), models.LoginRequest{Username: form.Username, Password: form.Password})
	if err != nil {
		slog.Warn("Login failed", "username", form.Username, "error", err)
		page.Error = failureMessage(err, "登录失败")
		h.render.Render(w, http.StatusOK, view.PageLogin, page)
		return
	}

	user := models.User{Username: form.Username, Role: models.RoleMember}
	if resp.User != nil {
		user = *resp.User
	}

	if err := h.sessions.Write(w, models.Identity{Token: resp.BearerToken(), User: user}); err != nil {
		slog.Error("Login reply could not be persisted", "username", form.Username, "error", err)
		page.Error = "登录失败"
		h.render.Render(w, http.StatusOK, view.PageLogin, page)
		return
	}

	slog.Info("User logged in", "username", user.Username, "role", user.Role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
