package cmd

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/ldds/client"
	"github.com/luma/ldds/dcp"
	"github.com/luma/ldds/internal/env"
	"github.com/luma/ldds/storage"
)

var (
	// Where fetched records are written, stdout when empty
	outPath string
)

func init() {
	flags := FetchCmd.Flags()

	flags.StringVarP(&outPath, "out", "o", "", "Write records to this file instead of stdout")
}

var FetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve every record matching the search criteria once",
	Long: `Retrieve every record matching the search criteria once

Each record is written on its own line. When LDDS_NATS_URL is set the
records are also published to NATS.

Usage
	ldds fetch --host cdadata.wcda.noaa.gov --user me --criteria goes.sc

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer signalStop()

		conf, err := loadConfig(ctx, cmd)
		if err != nil {
			return err
		}

		log, err := env.MakeLogger(conf.Debug)
		if err != nil {
			return err
		}

		c, err := loadCriteria(conf.Criteria)
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		closeOut := func() error { return nil }

		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			out, closeOut = f, f.Close
		}

		w := bufio.NewWriter(out)
		defer func() {
			err = multierr.Combine(err, w.Flush(), closeOut())
		}()

		sink := recordWriter(w)

		if conf.NATSURL != "" {
			nc, err := storage.ConnectNATS(conf.NATSURL, log.Named("nats"))
			if err != nil {
				return err
			}
			defer nc.Drain()

			sink = storage.Tee(sink, storage.NewNATSPublisher(nc, conf.NATSSubject, log.Named("nats")))
		}

		count, err := client.Fetch(ctx, clientOptions(conf, log.Named("session")),
			conf.User, conf.Password, c, sink)

		log.Info("Fetch finished",
			zap.String("host", conf.Host),
			zap.Int("records", count),
			zap.Error(err))

		return err
	},
}

func recordWriter(w io.Writer) storage.Sink {
	return storage.SinkFunc(func(_ context.Context, record dcp.Record) error {
		if _, err := w.Write(record); err != nil {
			return err
		}

		_, err := io.WriteString(w, "\n")
		return err
	})
}
