package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crucial707/visco/internal/middleware"
	"github.com/crucial707/visco/internal/repo"
	"github.com/crucial707/visco/internal/services"
	"github.com/crucial707/visco/internal/validate"
)

// CreatedAtLayout is how record timestamps appear in API responses.
const CreatedAtLayout = "2006-01-02 15:04:05"

const (
	msgNotFound     = "Data does not exist"
	msgUnreadable   = "record could not be decrypted"
	msgInvalidJSON  = "Invalid JSON body"
	msgBodyTooLarge = "Request body too large"
	msgContentType  = "Content-Type must be application/json"
)

// ==========================
// Record Handler
// ==========================
type RecordHandler struct {
	Records *services.RecordService
	Logger  *slog.Logger
}

// RecordOut is one record as the API returns it. Error is set instead of Data when the
// stored ciphertext could not be decrypted.
type RecordOut struct {
	ID        int    `json:"id"`
	Data      string `json:"data"`
	CreatedAt string `json:"created_at"`
	Error     string `json:"error,omitempty"`
}

func toOut(v services.RecordView) RecordOut {
	out := RecordOut{ID: v.ID, Data: v.Data, CreatedAt: v.CreatedAt.UTC().Format(CreatedAtLayout)}
	if v.Err != nil {
		out.Data = ""
		out.Error = msgUnreadable
	}
	return out
}

// recordID parses the {id} path parameter. Anything that is not a positive integer is
// treated like a record that does not exist.
func recordID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// isJSON reports whether the request declares a JSON body. Cross-site forms cannot send
// this content type without a preflight, which keeps the CSRF-exempt API safe.
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// ==========================
// Add Record
// ==========================
func (h *RecordHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if !isJSON(r) {
		JSONError(w, msgContentType, http.StatusUnsupportedMediaType)
		return
	}

	var in validate.ClientData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			JSONError(w, msgBodyTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		JSONError(w, msgInvalidJSON, http.StatusBadRequest)
		return
	}

	_, err := h.Records.Add(r.Context(), user.ID, in)
	var fe *validate.FieldError
	switch {
	case err == nil:
		JSONSuccess(w, "Data saved successfully", nil)
	case errors.As(err, &fe):
		JSONError(w, fe.Message, http.StatusBadRequest)
	default:
		h.Logger.Error("add record", "user_id", user.ID, "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// ==========================
// List Records
// ==========================
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	views, err := h.Records.List(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list records", "user_id", user.ID, "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	out := make([]RecordOut, 0, len(views))
	for _, v := range views {
		out = append(out, toOut(v))
	}
	JSONSuccess(w, "", out)
}

// ==========================
// Get Record
// ==========================
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id, ok := recordID(r)
	if !ok {
		JSONError(w, msgNotFound, http.StatusNotFound)
		return
	}

	v, err := h.Records.Get(r.Context(), id, user.ID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, msgNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("get record", "user_id", user.ID, "record_id", id, "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	JSONSuccess(w, "", toOut(v))
}

// ==========================
// Delete Record
// ==========================
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id, ok := recordID(r)
	if !ok {
		JSONError(w, msgNotFound, http.StatusNotFound)
		return
	}

	err := h.Records.Delete(r.Context(), id, user.ID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, msgNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("delete record", "user_id", user.ID, "record_id", id, "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.Logger.Info("record deleted", "user_id", user.ID, "record_id", id)
	JSONSuccess(w, "Data deleted successfully", nil)
}
