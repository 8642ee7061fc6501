package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/chart"
)

// Age after which the dashboard reports itself unhealthy. Generous next to
// the refresh interval so a handful of silent failures does not flap the
// health check.
const staleAfter = 10 * time.Minute

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.session == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	status := s.session.RefreshStatus()
	if status.LastRefreshedAt.IsZero() {
		// No symbol loaded yet; the server itself is fine.
		w.WriteHeader(http.StatusOK)
		return
	}

	if time.Since(status.LastRefreshedAt) > staleAfter {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(status.LastRefreshedAt.String())); err != nil {
			s.log.WithError(err).Error("failed to write health status")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex handles the main page request
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" && s.session != nil {
		symbol = s.session.Params().Symbol
	}

	w.Header().Set("Content-Type", "text/html")
	err := s.indexHTML.Execute(w, map[string]any{
		"symbol": symbol,
	})
	if err != nil {
		s.log.WithError(err).Error("template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleScript serves the transpiled dashboard script.
func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	if _, err := w.Write([]byte(s.scriptContent)); err != nil {
		s.log.WithError(err).Error("failed to write dashboard script")
	}
}

// handleData returns the current payload, pane specs and refresh status as
// JSON, used by clients to render the initial state before WebSocket
// deltas arrive.
func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.session == nil {
		http.Error(w, `{"detail": "no active session"}`, http.StatusServiceUnavailable)
		return
	}

	response := map[string]any{
		"params":     s.session.Params(),
		"analysis":   s.session.Current(),
		"visibility": s.session.Visibility(),
		"refresh":    s.session.RefreshStatus(),
		"panes":      s.surface.Panes(),
	}

	if analysis := s.session.Current(); analysis != nil {
		response["recent_closes"] = analysis.Closes().LastValues(30)
	}

	if s.watchboard != nil {
		response["watchboard_tickers"] = s.watchboard.Tickers()
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.WithError(err).Error("failed to encode data response")
	}
}

// handleClientMessage dispatches one inbound WebSocket message to the
// session.
func (s *Server) handleClientMessage(msg ClientMessage) {
	switch msg.Type {
	case "viewport":
		s.surface.SetWidth(msg.Width)
		s.session.Resize(msg.Width)

	case "load":
		if msg.Symbol == "" {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.session.Load(ctx, msg.Symbol, msg.Period, msg.Interval); err != nil {
				s.log.WithError(err).WithField("symbol", msg.Symbol).Warn("load failed")
				s.wsManager.Broadcast("loadFailed", map[string]any{
					"symbol": msg.Symbol,
					"detail": err.Error(),
				})
			}
		}()

	case "toggleOverlay":
		visible := s.session.ToggleOverlay(chart.OverlayKey(msg.Overlay))
		s.wsManager.Broadcast("overlayToggled", map[string]any{
			"overlay": msg.Overlay,
			"visible": visible,
		})

	case "autoRefresh":
		s.session.SetAutoRefresh(msg.Enabled)

	case "refreshNow":
		issued := s.session.RefreshNow()
		if !issued {
			s.log.Debug("manual refresh ignored, fetch already in flight")
		}

	default:
		s.log.WithField("type", msg.Type).Debug("unknown client message")
	}
}
