package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PagerDuty/go-pagerduty"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mysteriumnetwork/loopapp/heartbeat"
	"github.com/mysteriumnetwork/loopapp/loop"
	"github.com/mysteriumnetwork/loopapp/reporter"
	"github.com/mysteriumnetwork/loopapp/workflow"
)

var version = "undefined"

const defaultPagerDutyEndpoint = "https://events.pagerduty.com"

type options struct {
	showVersion bool
	verbose     bool

	// loop options
	interval time.Duration
	every    uint64

	// sink options
	heartbeatURL        string
	pagerDutyRoutingKey string
	pagerDutyEndpoint   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "loopapp",
		Short: "Heartbeat process which logs a counter every few iterations",
		Long: `loopapp increments a counter every interval and logs
"Waiting ... <counter>" on every n-th iteration, forever.

It exits with a non-zero status once interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.showVersion, "version", false, "show program version and exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.DurationVar(&opts.interval, "interval", loop.DefaultInterval, "pause between iterations")
	flags.Uint64Var(&opts.every, "every", loop.DefaultEvery, "beat on every n-th iteration")
	flags.StringVar(&opts.heartbeatURL, "heartbeat-url", "", "URL to GET on every beat")
	flags.StringVar(&opts.pagerDutyRoutingKey, "pagerduty-routing-key", "", "PagerDuty Events API v2 routing key to alert on termination")
	flags.StringVar(&opts.pagerDutyEndpoint, "pagerduty-endpoint", defaultPagerDutyEndpoint, "PagerDuty Events API v2 base URL")

	return cmd
}

func newLoggerConfig(verbose bool) zap.Config {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config
}

func run(ctx context.Context, opts *options) error {
	if opts.pagerDutyRoutingKey == "" {
		opts.pagerDutyRoutingKey = os.Getenv("PAGERDUTY_ROUTING_KEY")
	}

	logger, err := newLoggerConfig(opts.verbose).Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	runner, err := buildRunner(logger, opts)
	if err != nil {
		return err
	}

	logger.Debug("starting heartbeat loop",
		zap.Duration("interval", opts.interval),
		zap.Uint64("every", opts.every),
	)
	return runner.Run(ctx)
}

func buildRunner(logger *zap.Logger, opts *options) (*workflow.Runner, error) {
	var beat heartbeat.Heartbeat = heartbeat.NewLogHeartbeat(logger)
	if opts.heartbeatURL != "" {
		beat = heartbeat.NewMultiHeartbeat(beat, heartbeat.NewURLHeartbeat(opts.heartbeatURL))
	}

	l, err := loop.New(opts.interval, opts.every, beat)
	if err != nil {
		return nil, fmt.Errorf("unable to construct heartbeat loop: %w", err)
	}
	l.SetLogger(logger)

	var drain reporter.Reporter = reporter.NewLogReporter(logger)
	if opts.pagerDutyRoutingKey != "" {
		source, err := os.Hostname()
		if err != nil {
			source = "unknown"
		}
		pd := reporter.NewPagerDutyReporter(opts.pagerDutyRoutingKey, source,
			pagerduty.WithV2EventsAPIEndpoint(opts.pagerDutyEndpoint))
		drain = reporter.NewMultiReporter(drain, pd)
	}

	return workflow.NewRunner(l, drain).SetLogger(logger), nil
}

func execute(ctx context.Context, args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// A bare interruption is already logged by the drain.
	var (
		interrupted *loop.InterruptError
		merr        *multierror.Error
	)
	if errors.As(err, &merr) || !errors.As(err, &interrupted) {
		fmt.Fprintf(stderr, "loopapp: %v\n", err)
	}
	return 1
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stderr))
}
