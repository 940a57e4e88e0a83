package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/crucial707/visco/internal/auth"
	"github.com/crucial707/visco/internal/middleware"
	"github.com/crucial707/visco/internal/models"
)

func TestAuthHandler_Login(t *testing.T) {
	db, mock := newMock(t)
	hash, err := auth.HashPassword("Passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	mock.ExpectQuery(`SELECT id, username, email, password_hash, role, created_at FROM users WHERE username = \$1`).
		WithArgs("alice1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice1", "a@x.io", hash, "client", time.Now()))

	h := newAuthHandler(t, db)
	rr := httptest.NewRecorder()
	h.Login(rr, postForm("/login", url.Values{"username": {"alice1"}, "password": {"Passw0rd"}}))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("Login: got %d %q, want 302 /", rr.Code, rr.Header().Get("Location"))
	}
	c := findCookie(rr, auth.SessionCookieName)
	if c == nil || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("session cookie: %+v", c)
	}
	if id, err := h.Sessions.Parse(c.Value); err != nil || id != 1 {
		t.Errorf("session subject: got %d, %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// Wrong password and unknown user must be indistinguishable.
func TestAuthHandler_Login_GenericFailure(t *testing.T) {
	db, mock := newMock(t)
	hash, _ := auth.HashPassword("Passw0rd")
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("alice1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice1", "a@x.io", hash, "client", time.Now()))
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	h := newAuthHandler(t, db)

	wrong := httptest.NewRecorder()
	h.Login(wrong, postForm("/login", url.Values{"username": {"alice1"}, "password": {"WrongPass1"}}))
	unknown := httptest.NewRecorder()
	h.Login(unknown, postForm("/login", url.Values{"username": {"nobody"}, "password": {"Passw0rd"}}))
	empty := httptest.NewRecorder()
	h.Login(empty, postForm("/login", url.Values{}))

	for name, rr := range map[string]*httptest.ResponseRecorder{"wrong": wrong, "unknown": unknown, "empty": empty} {
		if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
			t.Errorf("%s: got %d %q, want 302 /login", name, rr.Code, rr.Header().Get("Location"))
		}
		if msg := flashOf(t, rr); msg != "Invalid username or password" {
			t.Errorf("%s: flash %q", name, msg)
		}
		if findCookie(rr, auth.SessionCookieName) != nil {
			t.Errorf("%s: session cookie set on failure", name)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice1").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("a@x.io").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice1", "a@x.io", sqlmock.AnyArg(), "client").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice1", "a@x.io", []byte("h"), "client", time.Now()))

	h := newAuthHandler(t, db)
	rr := httptest.NewRecorder()
	h.Register(rr, postForm("/register", url.Values{
		"username": {"alice1"}, "email": {"a@x.io"}, "password": {"Passw0rd"},
	}))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
		t.Fatalf("Register: got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if msg := flashOf(t, rr); msg != "Registration successful, please log in" {
		t.Errorf("flash %q", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Conflicts(t *testing.T) {
	form := url.Values{"username": {"alice1"}, "email": {"a@x.io"}, "password": {"Passw0rd"}}

	t.Run("username", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM users WHERE username = \$1`).
			WithArgs("alice1").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice1", "z@x.io", []byte("h"), "client", time.Now()))

		rr := httptest.NewRecorder()
		newAuthHandler(t, db).Register(rr, postForm("/register", form))
		if rr.Header().Get("Location") != "/register" || flashOf(t, rr) != "Username already exists" {
			t.Errorf("got %q %q", rr.Header().Get("Location"), flashOf(t, rr))
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})

	t.Run("email", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice1").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("a@x.io").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "bob1", "a@x.io", []byte("h"), "client", time.Now()))

		rr := httptest.NewRecorder()
		newAuthHandler(t, db).Register(rr, postForm("/register", form))
		if flashOf(t, rr) != "Email already exists" {
			t.Errorf("flash %q", flashOf(t, rr))
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})

	t.Run("race on insert", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice1").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("a@x.io").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		rr := httptest.NewRecorder()
		newAuthHandler(t, db).Register(rr, postForm("/register", form))
		if flashOf(t, rr) != "Username already exists" {
			t.Errorf("flash %q", flashOf(t, rr))
		}
	})
}

func TestAuthHandler_Register_Invalid(t *testing.T) {
	db, mock := newMock(t)
	rr := httptest.NewRecorder()
	newAuthHandler(t, db).Register(rr, postForm("/register", url.Values{
		"username": {"alice1"}, "email": {"a@x.io"}, "password": {"password"},
	}))

	want := "Input error: Password must contain at least one uppercase letter and one number"
	if rr.Header().Get("Location") != "/register" || flashOf(t, rr) != want {
		t.Errorf("got %q %q", rr.Header().Get("Location"), flashOf(t, rr))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no queries expected: %v", err)
	}
}

func TestAuthHandler_AuthenticatedRedirects(t *testing.T) {
	db, _ := newMock(t)
	h := newAuthHandler(t, db)

	for name, fn := range map[string]http.HandlerFunc{
		"LoginPage": h.LoginPage, "Login": h.Login, "RegisterPage": h.RegisterPage, "Register": h.Register,
	} {
		req := httptest.NewRequest("GET", "/login", nil)
		req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 1, Username: "alice1"}))
		rr := httptest.NewRecorder()
		fn(rr, req)
		if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
			t.Errorf("%s: got %d %q, want 302 /", name, rr.Code, rr.Header().Get("Location"))
		}
	}
}

func TestAuthHandler_LoginPage_ShowsFlash(t *testing.T) {
	db, _ := newMock(t)
	h := newAuthHandler(t, db)

	queued := httptest.NewRecorder()
	setFlash(queued, false, "success", "Logged out successfully")

	req := httptest.NewRequest("GET", "/login", nil)
	req.AddCookie(findCookie(queued, flashCookieName))
	rr := httptest.NewRecorder()
	h.LoginPage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Logged out successfully") {
		t.Error("flash not rendered")
	}
	if c := findCookie(rr, flashCookieName); c == nil || c.MaxAge >= 0 {
		t.Error("flash cookie not cleared after display")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	db, _ := newMock(t)
	h := newAuthHandler(t, db)

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest("GET", "/logout", nil))

	if rr.Header().Get("Location") != "/login" || flashOf(t, rr) != "Logged out successfully" {
		t.Errorf("got %q %q", rr.Header().Get("Location"), flashOf(t, rr))
	}
	if c := findCookie(rr, auth.SessionCookieName); c == nil || c.MaxAge >= 0 {
		t.Errorf("session cookie not cleared: %+v", c)
	}
}
