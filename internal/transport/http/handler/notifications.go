package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/go-training-admin/internal/application/notification"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/paging"
)

// NotificationListEnvelope is one page of the notification center plus counters over the unfiltered set.
type NotificationListEnvelope struct {
	paging.Page[domain.Notification]
	Stats notification.Stats `json:"stats"`
}

// NotificationHandler handles notification center endpoints.
type NotificationHandler struct {
	svc              notification.Service
	absenceThreshold int
	now              func() time.Time
}

func NewNotificationHandler(svc notification.Service, absenceThreshold int) *NotificationHandler {
	return &NotificationHandler{svc: svc, absenceThreshold: absenceThreshold, now: time.Now}
}

// List accepts ?apprenantId=, ?type=, ?etat=all|read|unread, ?search=, ?page= and ?per_page=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	q := r.URL.Query()
	result, err := h.svc.List(r.Context(), notification.Query{
		LearnerID: queryInt64(r, "apprenantId"),
		Type:      domain.NotificationType(strings.ToUpper(strings.TrimSpace(q.Get("type")))),
		State:     notification.ParseState(q.Get("etat")),
		Search:    q.Get("search"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationListEnvelope{Page: result.Page, Stats: result.Stats})
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.svc.MarkRead(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// MarkAllRead marks every unread notification of ?apprenantId= as read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	learnerID := queryInt64(r, "apprenantId")
	if learnerID <= 0 {
		writeError(w, http.StatusBadRequest, "apprenantId required")
		return
	}
	n, err := h.svc.MarkAllRead(r.Context(), learnerID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

// UnreadCount counts one learner's unread notifications, or everyone's without apprenantId.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	var learnerID int64
	if r.URL.Query().Has("apprenantId") {
		if learnerID = queryInt64(r, "apprenantId"); learnerID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid apprenantId")
			return
		}
	}
	n, err := h.svc.UnreadCount(r.Context(), learnerID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification deleted"})
}

func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req notification.SendRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.svc.Send(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID int64 `json:"groupeId"`
		notification.Content
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GroupID <= 0 {
		writeError(w, http.StatusBadRequest, "groupeId required")
		return
	}
	results, err := h.svc.Broadcast(r.Context(), req.GroupID, req.Content)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *NotificationHandler) Dispatches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ds, err := h.svc.Dispatches(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// Generate runs one generator: "overdue-payments", or "absences" with an optional ?threshold=.
func (h *NotificationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var (
		result *notification.GenerateResult
		err    error
	)
	switch chi.URLParam(r, "kind") {
	case "overdue-payments":
		result, err = h.svc.RemindOverduePayments(r.Context(), h.now())
	case "absences":
		threshold := h.absenceThreshold
		if v := r.URL.Query().Get("threshold"); v != "" {
			n, convErr := strconv.Atoi(v)
			if convErr != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "threshold must be a positive integer")
				return
			}
			threshold = n
		}
		result, err = h.svc.FlagAbsences(r.Context(), threshold)
	default:
		writeError(w, http.StatusBadRequest, "unknown generator")
		return
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
