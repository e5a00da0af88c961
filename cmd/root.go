package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/ldds/client"
	"github.com/luma/ldds/cmd/gen"
	"github.com/luma/ldds/criteria"
	"github.com/luma/ldds/internal/env"
)

var (
	// A TOML config file, applied over the environment
	configPath string

	// Connection flags, applied over the config when set
	lrgsHost        string
	lrgsPort        int
	timeout         time.Duration
	user            string
	password        string
	criteriaPath    string
	protocolVersion int
	debug           bool
	trace           bool
)

var RootCmd = &cobra.Command{
	Use:   "ldds",
	Short: "Retrieve DCP messages from an LRGS over the LDDS protocol",
	Long: `Retrieve DCP messages from an LRGS over the LDDS protocol

Connection settings come from the LDDS_* environment (and .env.local),
then the --config TOML file, then flags.`,
	SilenceUsage: true,
}

func init() {
	flags := RootCmd.PersistentFlags()

	flags.StringVarP(&configPath, "config", "c", "", "A TOML config file")
	flags.StringVarP(&lrgsHost, "host", "H", "", "The LRGS host")
	flags.IntVarP(&lrgsPort, "port", "p", 16003, "The LRGS port")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for connecting and for each request")
	flags.StringVarP(&user, "user", "u", "", "The LRGS user")
	flags.StringVar(&password, "password", "", "The LRGS password")
	flags.StringVar(&criteriaPath, "criteria", "", "A search criteria file, text (.sc) or JSON (.json)")
	flags.IntVar(&protocolVersion, "proto", 14, "The LDDS protocol version to speak")
	flags.BoolVar(&debug, "debug", false, "Log at debug level")
	flags.BoolVar(&trace, "trace", false, "Dump every frame to the debug log")

	RootCmd.AddCommand(FetchCmd)
	RootCmd.AddCommand(StartCmd)
	RootCmd.AddCommand(VersionCmd)
	RootCmd.AddCommand(gen.RootCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the config from the environment, the config file and
// whichever flags were set on cmd.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*env.Config, error) {
	conf, err := env.LoadConfig(ctx, configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("host") {
		conf.Host = lrgsHost
	}
	if flags.Changed("port") {
		conf.Port = lrgsPort
	}
	if flags.Changed("timeout") {
		conf.Timeout = timeout
	}
	if flags.Changed("user") {
		conf.User = user
	}
	if flags.Changed("password") {
		conf.Password = password
	}
	if flags.Changed("criteria") {
		conf.Criteria = criteriaPath
	}
	if flags.Changed("proto") {
		conf.ProtocolVersion = protocolVersion
	}
	if flags.Changed("debug") {
		conf.Debug = debug
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func clientOptions(conf *env.Config, log *zap.Logger) client.Options {
	return client.Options{
		Host:            conf.Host,
		Port:            conf.Port,
		Timeout:         conf.Timeout,
		ProtocolVersion: conf.ProtocolVersion,
		Trace:           trace,
		Log:             log,
	}
}

// loadCriteria reads the criteria file at path, JSON when it ends in
// .json. No path means no criteria.
func loadCriteria(path string) (*criteria.SearchCriteria, error) {
	switch {
	case path == "":
		return criteria.New(), nil

	case strings.EqualFold(filepath.Ext(path), ".json"):
		return criteria.LoadJSONFile(path)

	default:
		return criteria.ParseFile(path)
	}
}
