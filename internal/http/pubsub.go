package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

func (s *Server) MatchCompletedPushHandler() http.HandlerFunc {
	return s.pushHandler("match-completed", s.Processor.HandleMatchCompleted)
}

func (s *Server) AchievementUnlockedPushHandler() http.HandlerFunc {
	return s.pushHandler("achievement-unlocked", s.Processor.HandleAchievementUnlocked)
}

// pushHandler unwraps a Pub/Sub push envelope and hands the payload to
// handle. A non-2xx answer makes Pub/Sub redeliver, so malformed messages
// are acknowledged with 400 only when redelivery cannot help.
func (s *Server) pushHandler(topic string, handle func(ctx context.Context, data []byte, dryRun bool) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received push message", "topic", topic, "body", string(bodyBytes))

		var env pushEnvelope
		if err := json.Unmarshal(bodyBytes, &env); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(env.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		if err := handle(r.Context(), rawData, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to handle push message", "topic", topic, "messageID", env.Message.MessageID, "error", err)
			writeError(w, r, err)
			return
		}
		w.Write([]byte("OK"))
	}
}
