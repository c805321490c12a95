package www

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/egubrno/svr-dashboard-go/config"
	"github.com/egubrno/svr-dashboard-go/hours"
	"github.com/egubrno/svr-dashboard-go/logging"
	"github.com/egubrno/svr-dashboard-go/market"
)

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	svc    *market.Service
	hub    *Hub
	tm     *TemplateManager
}

//go:embed static
var embeddedStaticDir embed.FS

func StartServer(svc *market.Service, memLog *logging.MemoryHandler, cnfg config.AppConfigApi, defaultCountry string) *Server {
	logger := slog.Default().With("module", "www")
	tm, err := NewTemplateManager(logger, cnfg.WwwDir)
	if err != nil {
		logger.Error("template manager initialization error", slog.Any("error", err))
	}

	s := &Server{
		logger: logger,
		config: cnfg,
		svc:    svc,
		hub:    NewHub(logger),
		tm:     tm,
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	http.Handle("/", staticFilesHandler(cnfg.WwwDir))

	http.Handle("/chart/prices", logReqMW(NewPricesChartHandler(
		logger.With(slog.String("handler", "prices")),
		svc,
		defaultCountry)))

	http.Handle("/chart/aggregated", logReqMW(NewAggregatedChartHandler(
		logger.With(slog.String("handler", "aggregated")),
		svc,
		defaultCountry)))

	http.Handle("/chart/bid_curve", logReqMW(NewBidCurveChartHandler(
		logger.With(slog.String("handler", "bid_curve")),
		svc,
		defaultCountry)))

	http.Handle("/chart/capacity_curve", logReqMW(NewCapacityCurveChartHandler(
		logger.With(slog.String("handler", "capacity_curve")),
		svc,
		defaultCountry)))

	http.Handle("/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")),
		memLog,
		s.tm)))

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return s
}

// NotifyRefresh pushes a dataset refresh event to all open pages, wired as
// the market service's OnRefresh hook.
func (s *Server) NotifyRefresh(dataset, country string, day hours.Day) {
	msg, err := json.Marshal(struct {
		Dataset string `json:"dataset"`
		Country string `json:"country"`
		Date    string `json:"date"`
	}{dataset, country, day.String()})
	if err != nil {
		s.logger.Error("refresh event encoding failed", slog.Any("error", err))
		return
	}
	s.hub.Broadcast <- msg
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "port", s.config.Port)
	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			if err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return
		}
	}
}

func staticFilesHandler(extDir *string) http.Handler {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		log.Panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
