package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/config"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/notifier"
	"github.com/mauv0809/arena/internal/performance"
	"github.com/mauv0809/arena/internal/processor"
	"github.com/mauv0809/arena/internal/tournament"
)

// RoomServer attaches websocket clients to a live room.
type RoomServer interface {
	ServeRoom(w http.ResponseWriter, r *http.Request, room string)
}

// Services bundles the domain services the handlers call into.
type Services struct {
	Tournaments  *tournament.Service
	Matches      *match.Service
	Processor    *processor.Processor
	Performances performance.Store
	Achievements *achievement.Service
	Live         RoomServer
	Notifier     notifier.Notifier
}

type Server struct {
	Services
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *chi.Mux
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type registerTeamRequest struct {
	TeamID string `json:"teamId"`
	Seed   *int   `json:"seed,omitempty"`
}

type statusRequest struct {
	Status tournament.Status `json:"status"`
}

// pushEnvelope is the body Pub/Sub push subscriptions deliver.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
}
