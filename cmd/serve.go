package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velden-health/denial-audit/internal/engine"
	"github.com/velden-health/denial-audit/internal/report"
)

// shutdownTimeout bounds how long in-flight requests get to finish after a
// termination signal.
const shutdownTimeout = 10 * time.Second

var servePort int

type auditRequest struct {
	Files []struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	} `json:"files"`
}

type auditResponse struct {
	Records any            `json:"records"`
	Summary report.Summary `json:"summary"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, _ := buildEngine(cfg)

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /audit", func(w http.ResponseWriter, r *http.Request) {
			var req auditRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if len(req.Files) == 0 {
				http.Error(w, `{"error":"files is required"}`, http.StatusBadRequest)
				return
			}

			inputs := make([]engine.Input, 0, len(req.Files))
			for _, f := range req.Files {
				inputs = append(inputs, engine.Input{Name: f.Name, Text: f.Content})
			}

			enriched := eng.Enrich(eng.Process(inputs))
			zap.L().Info("audit request served",
				zap.Int("files", len(inputs)),
				zap.Int("records", len(enriched)),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(auditResponse{
				Records: enriched,
				Summary: report.Summarize(enriched),
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return eris.Wrapf(err, "listen on port %d", port)
		}

		zap.L().Info("starting server", zap.Int("port", port))
		return runServer(ctx, &http.Server{Handler: mux}, ln)
	},
}

// runServer serves on ln until ctx is cancelled, then drains in-flight
// requests. Shutdown gets a fresh context: the signal context is already
// cancelled by the time it fires.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
