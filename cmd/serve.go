package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/report"
	"github.com/sells-group/poi-cli/internal/resolve"
	"github.com/sells-group/poi-cli/pkg/nominatim"
	"github.com/sells-group/poi-cli/pkg/overpass"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for extraction requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := initPipeline()
		if err != nil {
			return err
		}

		// Set up routes
		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /extract", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Location string  `json:"location"`
				RadiusKM float64 `json:"radius_km"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if req.Location == "" {
				writeError(w, http.StatusBadRequest, "location is required")
				return
			}
			if req.RadiusKM <= 0 || req.RadiusKM > maxRadiusKM {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("radius_km must be in (0, %v]", maxRadiusKM))
				return
			}

			// One request, one synchronous pipeline run.
			rs, err := p.Run(r.Context(), req.Location, req.RadiusKM)
			if err != nil {
				zap.L().Warn("extraction request failed",
					zap.String("location", req.Location),
					zap.Error(err),
				)
				writeError(w, statusFor(err), guidanceFor(err))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]any{
				"run_id":     rs.RunID,
				"center":     rs.Center,
				"radius_km":  rs.RadiusKM,
				"count":      rs.Count(),
				"categories": report.Frequencies(rs.Entities),
				"entities":   rs.Entities,
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// statusFor maps typed pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, overpass.ErrInvalidRadius),
		errors.Is(err, overpass.ErrBadRequest),
		errors.Is(err, resolve.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, resolve.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, overpass.ErrServiceOverloaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, overpass.ErrNetwork), errors.Is(err, nominatim.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
