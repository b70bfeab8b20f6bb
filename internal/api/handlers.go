package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/starford/calpick/internal/apperr"
	"github.com/starford/calpick/internal/calendar"
	"github.com/starford/calpick/internal/checksum"
	"github.com/starford/calpick/internal/manage"
	"github.com/starford/calpick/internal/picker"
	"github.com/starford/calpick/internal/web"
)

// SessionCookie carries the picker session id.
const SessionCookie = "calpick_session"

// Handler holds the picker and manageData route handlers.
type Handler struct {
	sessions *picker.Sessions
	renderer *web.Renderer
	manage   *manage.Service
	lang     string
}

// NewHandler creates a new Handler. lang is the page language attribute.
func NewHandler(sessions *picker.Sessions, renderer *web.Renderer, svc *manage.Service, lang string) *Handler {
	return &Handler{sessions: sessions, renderer: renderer, manage: svc, lang: lang}
}

// SessionID returns the session id carried by r, or "".
func SessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// picker returns the caller's picker, starting a session when needed.
func (h *Handler) picker(w http.ResponseWriter, r *http.Request) *picker.Picker {
	id := SessionID(r)
	newID, p := h.sessions.Acquire(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return p
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// respondView writes v as JSON for API clients and redirects browsers back
// to the page.
func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, v picker.View) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, v)
		return
	}
	if r.Header.Get("HX-Request") != "" {
		h.renderGrid(w, v)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderGrid(w http.ResponseWriter, v picker.View) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, web.GridTemplate, v); err != nil {
		slog.Error("render grid failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Page handles GET /.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	v := h.picker(w, r).View()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, web.PageTemplate, web.PageData{Lang: h.lang, View: v}); err != nil {
		slog.Error("render page failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Grid handles GET /calendar/grid.
func (h *Handler) Grid(w http.ResponseWriter, r *http.Request) {
	h.renderGrid(w, h.picker(w, r).View())
}

// View handles GET /calendar. The response carries an ETag so that polling
// clients get 304 until the grid changes.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	v := h.picker(w, r).View()
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode view failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if checksum.Match(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// PreviousMonth handles POST /calendar/prev.
func (h *Handler) PreviousMonth(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, h.picker(w, r).PreviousMonth())
}

// NextMonth handles POST /calendar/next.
func (h *Handler) NextMonth(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, h.picker(w, r).NextMonth())
}

// SelectDay handles POST /calendar/select with a "date" form or query value.
func (h *Handler) SelectDay(w http.ResponseWriter, r *http.Request) {
	p := h.picker(w, r)
	date, err := calendar.ParseDate(r.FormValue("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
		return
	}
	ctx := manage.WithSession(r.Context(), p.Session())
	v, err := p.SelectDay(ctx, date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotSelectable) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("date is not in the displayed month"))
		} else {
			slog.Error("select day failed", slog.String("date", string(date)), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	slog.Info("selected date", slog.String("date", string(date)), slog.String("session", p.Session()))
	h.respondView(w, r, v)
}

// ManageData handles POST /api/manage-data.
func (h *Handler) ManageData(w http.ResponseWriter, r *http.Request) {
	var req ManageDataRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	date, err := manage.ValidateDate(req.SelectedDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("selectedDate must be YYYY-MM-DD"))
		return
	}
	res, err := h.manage.ManageData(r.Context(), date)
	if err != nil {
		slog.Error("manage data failed", slog.String("date", string(date)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Selections handles GET /api/selections.
func (h *Handler) Selections(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.manage.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("list selections failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SelectionListResponse{Selections: nonNilSlice(items), Generated: time.Now().UTC()})
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
