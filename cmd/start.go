package cmd

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	reuseport "github.com/kavu/go_reuseport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/ldds/client"
	"github.com/luma/ldds/internal/env"
	"github.com/luma/ldds/internal/metrics"
	"github.com/luma/ldds/storage"
)

var (
	// The host to serve HTTP on
	listenHost string

	// The port to listen for http requests on
	httpPort string

	// Overrides LDDS_INTERVAL when set
	interval time.Duration
)

func init() {
	flags := StartCmd.Flags()

	flags.StringVar(&httpPort, "http-port", "7362", "The port to listen to HTTP requests on")
	flags.StringVarP(&listenHost, "listen", "a", "0.0.0.0", "The host to serve HTTP on")
	flags.DurationVar(&interval, "interval", 5*time.Minute, "How long to wait between retrievals")
}

var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Keep retrieving records and serve them over HTTP",
	Long: `Keep retrieving records and serve them over HTTP

Runs a retrieval every --interval, keeping the newest LDDS_RECORD_LIMIT
records of each address in memory without repeats and
publishing to NATS when LDDS_NATS_URL is set. Records, per address
summaries and prometheus metrics are served over HTTP.

Usage
	ldds start --host cdadata.wcda.noaa.gov --user me --criteria goes.sc

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer signalStop()

		conf, err := loadConfig(ctx, cmd)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("interval") {
			conf.Interval = interval
		}

		log, err := env.MakeLogger(conf.Debug)
		if err != nil {
			return err
		}

		c, err := loadCriteria(conf.Criteria)
		if err != nil {
			return err
		}

		store := storage.NewBoundedInmemoryStore(conf.RecordLimit)
		defer store.Close()

		m := metrics.New()
		sink := m.Sink(store)

		if conf.NATSURL != "" {
			nc, err := storage.ConnectNATS(conf.NATSURL, log.Named("nats"))
			if err != nil {
				return err
			}
			defer nc.Drain()

			sink = storage.Tee(sink, storage.NewNATSPublisher(nc, conf.NATSSubject, log.Named("nats")))
		}

		go logUpdates(store.ListenToUpdates(), log.Named("store"))

		router := setupRouter(conf.DebugHTTP, log)
		routes(router, store, m)

		listener, err := reuseport.Listen("tcp", net.JoinHostPort(listenHost, httpPort))
		if err != nil {
			return err
		}

		s := &http.Server{
			Handler: router,
		}

		// Serve in a goroutine so that it won't block the retrieval loop
		// and the graceful shutdown below
		go func() {
			if err := s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		log.Info("Listening",
			zap.Any("config", conf),
			zap.String("listen", listenHost),
			zap.String("httpPort", httpPort))

		options := clientOptions(conf, log.Named("session"))

		retrieve(ctx, conf.Interval, log, func(ctx context.Context) (int, error) {
			count, err := client.Fetch(ctx, options, conf.User, conf.Password, c, sink)
			m.Session(err)

			return count, err
		})

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(ctx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		log.Info("Exiting")
		return nil
	},
}

// retrieve calls fetch right away and then every interval until ctx is
// done. Failed retrievals are logged and retried on the next tick.
func retrieve(
	ctx context.Context,
	interval time.Duration,
	log *zap.Logger,
	fetch func(ctx context.Context) (int, error),
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		start := time.Now()
		count, err := fetch(ctx)

		if err != nil && ctx.Err() == nil {
			log.Error("Retrieval failed", zap.Error(err), zap.Int("records", count))
		} else if err == nil {
			log.Info("Retrieved records",
				zap.Int("records", count),
				zap.Duration("took", time.Since(start)))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func logUpdates(updates <-chan *storage.Update, log *zap.Logger) {
	for update := range updates {
		log.Debug("Record", zap.String("address", update.Address), zap.Int("bytes", len(update.Record)))
	}
}

func routes(router *gin.Engine, store storage.Store, m *metrics.Metrics) {
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Per address summaries
	router.GET("/records", func(c *gin.Context) {
		backup, err := store.Backup()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		c.Data(http.StatusOK, "application/json", backup)
	})

	router.GET("/records/:address", func(c *gin.Context) {
		summary, err := store.Get(c.Request.Context(), c.Param("address"))
		if errors.Is(err, storage.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		c.Data(http.StatusOK, "application/json", summary)
	})

	// The records themselves, one per line
	router.GET("/records/:address/raw", func(c *gin.Context) {
		var buf bytes.Buffer
		for _, r := range store.Records(c.Param("address")) {
			buf.Write(r)
			buf.WriteByte('\n')
		}

		c.Data(http.StatusOK, "text/plain; charset=us-ascii", buf.Bytes())
	})
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.GinzapWithConfig(log.Named("http"), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping", "/metrics"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}
