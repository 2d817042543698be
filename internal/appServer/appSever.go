// launching the server, processing client, redis cache, kafka events
package appServer

import (
	"context"
	"crypto/tls"
	"log"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/filterbench/config"
	"github.com/ds124wfegd/filterbench/internal/database"
	redisCache "github.com/ds124wfegd/filterbench/internal/database/redis"
	"github.com/ds124wfegd/filterbench/internal/pkg/kafka"
	"github.com/ds124wfegd/filterbench/internal/pkg/pdf"
	"github.com/ds124wfegd/filterbench/internal/pkg/processor"
	"github.com/ds124wfegd/filterbench/internal/pkg/report"
	"github.com/ds124wfegd/filterbench/internal/pkg/storage"
	"github.com/ds124wfegd/filterbench/internal/service"
	"github.com/ds124wfegd/filterbench/internal/transport"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logrus.GetLevel())
	}

	var cache processor.ArtifactCache
	if cfg.Redis.Enabled {
		artifactCache := redisCache.NewArtifactCache(redisCache.NewRedisClient(&cfg.Redis), cfg.Redis.TTL)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
		err := artifactCache.Ping(ctx)
		cancel()
		if err != nil {
			logrus.Warnf("Redis unavailable, artifacts will not be cached: %v", err)
			artifactCache.Close()
		} else {
			defer artifactCache.Close()
			cache = artifactCache
		}
	}

	var producer kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		producer = kafka.NewMockProducer()
	}
	defer producer.Close()

	store := database.NewPipelineStore()
	client := processor.NewClient(cfg.Processor.URL, cfg.Processor.Timeout)
	workspace := service.NewWorkspaceService(service.Dependencies{
		Store:        store,
		Evaluator:    processor.NewEvaluator(store, client, cache, producer),
		Renderer:     pdf.NewRenderer(cfg.Report.MaxImageEdge),
		Storage:      storage.NewFileStorage(cfg.Report.StoragePath),
		Events:       producer,
		Debounce:     cfg.Processor.Debounce,
		EvalTimeout:  cfg.Processor.Timeout,
		Layout:       reportLayout(cfg.Report),
		DefaultTitle: cfg.Report.Title,
	})
	handler := transport.NewHandler(workspace)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handler, cfg.Server.Timeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("processor", cfg.Processor.URL).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	workspace.Close()
}

// reportLayout overrides the A4 defaults with whatever the config sets.
func reportLayout(cfg config.ReportConfig) report.Layout {
	layout := report.DefaultLayout()
	if cfg.Margin > 0 {
		layout.Margin = cfg.Margin
	}
	if cfg.TargetWidth > 0 {
		layout.TargetWidth = cfg.TargetWidth
	}
	if cfg.ColumnGap > 0 {
		layout.ColumnGap = cfg.ColumnGap
	}
	if cfg.LineHeight > 0 {
		layout.LineHeight = cfg.LineHeight
	}
	return layout
}
