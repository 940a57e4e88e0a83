package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/visco/internal/auth"
	"github.com/crucial707/visco/internal/middleware"
	"github.com/crucial707/visco/internal/repo"
	"github.com/crucial707/visco/internal/services"
	"github.com/crucial707/visco/internal/validate"
	"github.com/crucial707/visco/internal/web"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Accounts *services.AccountService
	Sessions *auth.SessionManager
	Pages    *web.Renderer
	Logger   *slog.Logger
	// Secure marks flash cookies Secure (production).
	Secure bool
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, page, title string) {
	user, _ := middleware.UserFromContext(r.Context())
	data := web.PageData{
		Title:     title,
		User:      user,
		CSRFToken: middleware.CSRFToken(r.Context()),
		Flashes:   popFlashes(w, r, h.Secure),
	}
	if err := h.Pages.Render(w, page, data); err != nil {
		h.Logger.Error("render page", "page", page, "err", err)
		http.Error(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

func (h *AuthHandler) redirectWithFlash(w http.ResponseWriter, r *http.Request, to, category, msg string) {
	setFlash(w, h.Secure, category, msg)
	http.Redirect(w, r, to, http.StatusFound)
}

func isAuthenticated(r *http.Request) bool {
	_, ok := middleware.UserFromContext(r.Context())
	return ok
}

// ==========================
// Home
// ==========================
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", "Home")
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "login.html", "Log in")
}

// Login answers every failure with the same message so responses do not reveal which
// usernames exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	in := validate.Login{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	user, err := h.Accounts.Authenticate(r.Context(), in)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.redirectWithFlash(w, r, "/login", web.FlashDanger, "Invalid username or password")
		return
	}
	if err != nil {
		h.Logger.Error("login", "err", err)
		h.redirectWithFlash(w, r, "/login", web.FlashDanger, ErrMessageRetry)
		return
	}

	if err := h.Sessions.Start(w, user.ID); err != nil {
		h.Logger.Error("start session", "user_id", user.ID, "err", err)
		h.redirectWithFlash(w, r, "/login", web.FlashDanger, ErrMessageRetry)
		return
	}
	h.Logger.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "register.html", "Register")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	in := validate.Registration{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	_, err := h.Accounts.Register(r.Context(), in)

	var fe *validate.FieldError
	switch {
	case err == nil:
		h.redirectWithFlash(w, r, "/login", web.FlashSuccess, "Registration successful, please log in")
	case errors.As(err, &fe):
		h.redirectWithFlash(w, r, "/register", web.FlashDanger, "Input error: "+fe.Message)
	case errors.Is(err, repo.ErrUsernameTaken):
		h.redirectWithFlash(w, r, "/register", web.FlashDanger, "Username already exists")
	case errors.Is(err, repo.ErrEmailTaken):
		h.redirectWithFlash(w, r, "/register", web.FlashDanger, "Email already exists")
	default:
		h.Logger.Error("register", "err", err)
		h.redirectWithFlash(w, r, "/register", web.FlashDanger, ErrMessageRetry)
	}
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.End(w)
	h.redirectWithFlash(w, r, "/login", web.FlashSuccess, "Logged out successfully")
}
