package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"hashfeed/pkg/errors"
	"hashfeed/pkg/feed"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/ratelimit"
)

// FeedService is what the handlers need from the gateway
type FeedService interface {
	Fetch(ctx context.Context, platform feed.Platform, cursor string) ([]feed.Post, error)
	Platforms() []feed.Platform
	Hashtag() string
}

// feedQuery is the inbound query of every feed endpoint
type feedQuery struct {
	LID string `validate:"omitempty,max=128,printascii"`
}

type errorBody struct {
	Error errors.WireError `json:"error"`
}

type healthBody struct {
	Status    string          `json:"status"`
	Hashtag   string          `json:"hashtag"`
	Platforms []feed.Platform `json:"platforms"`
}

type handlers struct {
	service  FeedService
	validate *validator.Validate
	limits   *ratelimit.Keyed // nil when unlimited
	logger   logger.Logger
}

// platformFeed serves a fixed platform, as the per-platform endpoints do
func (h *handlers) platformFeed(p feed.Platform) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveFeed(w, r, p)
	}
}

// namedFeed serves /feeds/{platform}
func (h *handlers) namedFeed(w http.ResponseWriter, r *http.Request) {
	p, err := feed.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		h.writeError(w, r, errors.NotFound("%s", err.Error()))
		return
	}
	h.serveFeed(w, r, p)
}

func (h *handlers) serveFeed(w http.ResponseWriter, r *http.Request, p feed.Platform) {
	q := feedQuery{LID: r.URL.Query().Get("LID")}
	if err := h.validate.Struct(q); err != nil {
		h.writeError(w, r, errors.InvalidRequest("invalid LID: must be at most 128 printable ASCII characters"))
		return
	}

	if h.limits != nil {
		l := h.limits.Get(p.String())
		if !l.Allow() {
			w.Header().Set("Retry-After", retryAfterSeconds(l.RetryAfter()))
			h.writeError(w, r, errors.RateLimited("too many %s feed requests", p))
			return
		}
	}

	posts, err := h.service.Fetch(r.Context(), p, q.LID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if posts == nil {
		posts = []feed.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	platforms := h.service.Platforms()
	if platforms == nil {
		platforms = []feed.Platform{}
	}
	writeJSON(w, http.StatusOK, healthBody{
		Status:    "ok",
		Hashtag:   h.service.Hashtag(),
		Platforms: platforms,
	})
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, errors.NotFound("no route for %s", r.URL.Path))
}

func (h *handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errors.WireError{
		Type:    errors.TypeInvalidRequest,
		Message: "method " + r.Method + " not allowed",
	}})
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WarnWithFields("feed request failed", map[string]interface{}{
			"request_id": RequestID(r.Context()),
			"status":     status,
		})
	}
	writeJSON(w, status, errorBody{Error: errors.Wire(err)})
}

// retryAfterSeconds rounds up to whole seconds, never below one
func retryAfterSeconds(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
