// Command server serves the study assistant over websockets, along with
// health endpoints and downloadable progress reports.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"

	"github.com/p-n-ai/studybot/internal/app"
	"github.com/p-n-ai/studybot/internal/chat"
	"github.com/p-n-ai/studybot/internal/dialogue"
	"github.com/p-n-ai/studybot/internal/platform/config"
	"github.com/p-n-ai/studybot/internal/platform/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     newMux(a),
		ReadTimeout: 10 * time.Second,
		// Websocket conversations are long lived; writes are bounded per
		// message by the connection context instead.
		IdleTimeout: 60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "history", cfg.History.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newMux creates the HTTP router: health checks, the chat websocket and
// progress reports.
func newMux(a *app.App) *http.ServeMux {
	h := &handlers{app: a, logger: a.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.HandleFunc("GET /ws", h.chat)
	mux.HandleFunc("GET /progress/{username}", h.progress)
	return mux
}

type handlers struct {
	app    *app.App
	logger *slog.Logger
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"status":"ok"}`)
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.app.HealthCheck(ctx); err != nil {
		h.logger.Warn("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, `{"status":"unavailable"}`)
		return
	}
	writeJSON(w, http.StatusOK, `{"status":"ready"}`)
}

// chat runs one conversation per websocket connection. Each text message
// from the client is one input line.
func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}

	conn := chat.NewWSConn(c)
	conv := dialogue.Conversation{
		Session: dialogue.NewSession(),
		In:      conn,
		Out:     conn,
	}
	h.logger.Info("websocket connected", "session_id", conv.Session.ID(), "remote", r.RemoteAddr)

	if err := h.app.Dispatcher.Run(r.Context(), conv); err != nil {
		h.logger.Warn("conversation ended with error", "session_id", conv.Session.ID(), "error", err)
		c.Close(websocket.StatusInternalError, "conversation failed")
		return
	}
	_ = conn.Close("session ended")
}

// progress serves a user's quiz results and studied topics as an XLSX
// workbook.
func (h *handlers) progress(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" || strings.ContainsAny(username, "|\n\"") {
		http.Error(w, "invalid username", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.app.Quiz.Report(r.Context(), username, &buf); err != nil {
		h.logger.Error("building progress report", "username", username, "error", err)
		http.Error(w, "unable to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_progress.xlsx"`, username))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
