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

	"github.com/crucial707/visco/internal/auth"
	"github.com/crucial707/visco/internal/logging"
	"github.com/crucial707/visco/internal/repo"
	"github.com/crucial707/visco/internal/services"
	"github.com/crucial707/visco/internal/web"
)

var userCols = []string{"id", "username", "email", "password_hash", "role", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newAuthHandler(t *testing.T, db *sql.DB) *AuthHandler {
	t.Helper()
	pages, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return &AuthHandler{
		Accounts: services.NewAccountService(repo.NewUserRepo(db), logging.Discard()),
		Sessions: auth.NewSessionManager("test-secret", time.Hour, false),
		Pages:    pages,
		Logger:   logging.Discard(),
	}
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashOf decodes the flash message the response queued, or "" when none.
func flashOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	c := findCookie(rr, flashCookieName)
	if c == nil {
		return ""
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(c)
	flashes := popFlashes(httptest.NewRecorder(), req, false)
	if len(flashes) != 1 {
		t.Fatalf("flashes: %+v", flashes)
	}
	return flashes[0].Message
}
