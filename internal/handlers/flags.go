package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/badge-adventure/internal/indicator"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// FlagSource exposes quest flags. Reads must be safe while the game runs.
type FlagSource interface {
	Snapshot() map[string]bool
}

// FrameSource reports the frame most recently pushed to the LEDs.
type FrameSource interface {
	Last() indicator.Frame
}

type FlagsResponse struct {
	Flags  map[string]bool `json:"flags"`
	Lights indicator.Frame `json:"lights"`
}

// FlagsHandler serves GET /v1/flags for companion displays.
type FlagsHandler struct {
	flags  FlagSource
	frames FrameSource
	logger *slog.Logger
}

func NewFlagsHandler(flags FlagSource, frames FrameSource, logger *slog.Logger) *FlagsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlagsHandler{flags: flags, frames: frames, logger: logger}
}

func (h *FlagsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed", "method", r.Method, "path", r.URL.Path)
		w.WriteHeader(http.StatusMethodNotAllowed)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Method not allowed"}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	response := FlagsResponse{Flags: h.flags.Snapshot()}
	if h.frames != nil {
		response.Lights = h.frames.Last()
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode flags response", "error", err)
	}
}

// NewMux routes the badge's HTTP surface. ws may be nil when the websocket
// console is disabled.
func NewMux(health, flags, ws http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /health", health)
	mux.Handle("/v1/flags", flags)
	if ws != nil {
		mux.Handle("GET /ws", ws)
	}
	return mux
}
