package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/greetingws/internal/common"
	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
	"github.com/gorilla/mux"
)

// GreetingProvider is the slice of the greeting service the handlers use.
type GreetingProvider interface {
	FindAll(ctx context.Context) ([]*models.Greeting, error)
	FindOne(ctx context.Context, id int64) (*models.Greeting, error)
	Create(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error)
	Update(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error)
	Delete(ctx context.Context, id int64) error
}

// EmailSender dispatches greeting notifications without blocking the
// request.
type EmailSender interface {
	SendAsync(ctx context.Context, greeting *models.Greeting)
}

// Handlers contains the HTTP handlers for the greeting resource.
type Handlers struct {
	greetings GreetingProvider
	email     EmailSender
	eh        *ErrorHandler
	logger    logging.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(g GreetingProvider, email EmailSender, eh *ErrorHandler, l logging.Logger) *Handlers {
	return &Handlers{
		greetings: g,
		email:     email,
		eh:        eh,
		logger:    l.With("module", "http_handlers"),
	}
}

// ListGreetings handles GET /greetings.
func (h *Handlers) ListGreetings(w http.ResponseWriter, r *http.Request) {
	result, err := h.greetings.FindAll(r.Context())
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}
	if result == nil {
		result = []*models.Greeting{}
	}
	h.writeJSON(w, http.StatusOK, result)
}

// GetGreeting handles GET /greetings/{id}.
func (h *Handlers) GetGreeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}

	g, err := h.greetings.FindOne(r.Context(), id)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// CreateGreeting handles POST /greetings.
func (h *Handlers) CreateGreeting(w http.ResponseWriter, r *http.Request) {
	g, err := decodeGreeting(r)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}

	created, err := h.greetings.Create(r.Context(), g)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateGreeting handles PUT /greetings/{id}. The path id is
// authoritative; any id in the body is ignored.
func (h *Handlers) UpdateGreeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}

	g, err := decodeGreeting(r)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}
	g.ID = id

	updated, err := h.greetings.Update(r.Context(), g)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteGreeting handles DELETE /greetings/{id}.
func (h *Handlers) DeleteGreeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}

	if err := h.greetings.Delete(r.Context(), id); err != nil {
		h.eh.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendGreeting handles POST /greetings/{id}/send, dispatching an async
// email notification for the greeting.
func (h *Handlers) SendGreeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}

	g, err := h.greetings.FindOne(r.Context(), id)
	if err != nil {
		h.eh.HandleError(w, r, err)
		return
	}

	h.email.SendAsync(r.Context(), g)
	h.writeJSON(w, http.StatusOK, g)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(context.Background(), "response encoding failed", "error", err.Error())
	}
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrorValidation, raw)
	}
	return id, nil
}

func decodeGreeting(r *http.Request) (*models.Greeting, error) {
	defer r.Body.Close()

	var g models.Greeting
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", common.ErrorValidation, err)
	}
	return &g, nil
}
