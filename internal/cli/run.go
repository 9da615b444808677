package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/demo"
	"github.com/comalice/hsmx/internal/extensibility"
	"github.com/comalice/hsmx/internal/primitives"
	"github.com/comalice/hsmx/internal/production"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	MachineID   string
	Journal     string
	MetricsAddr string
	Staged      bool
	Cascade     bool
	Tick        string
	Ticks       int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [EVENT...]",
		Short: "Evaluate events against the demo graph",
		Long: `Evaluate events against the demo graph, one at a time, and print the
collected results after each event.

Events are taken from the arguments, or read one per line from stdin when no
arguments are given. With --tick EVENT=DURATION the arguments are sent first,
then EVENT is emitted every DURATION until --ticks events were delivered; stdin
is not read.

Example:
  hsmx run E12 E21
  printf 'E12\nE21\n' | hsmx run --journal ./hsmx.db --format json
  hsmx run --tick E12=100ms --ticks 5`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.MachineID, "id", "", "machine ID (default: random UUID)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "append evaluations to this SQLite journal")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().BoolVar(&opts.Staged, "staged", false, "commit active-state changes only when an evaluation succeeds")
	cmd.Flags().BoolVar(&opts.Cascade, "cascade", false, "include cascaded results")
	cmd.Flags().StringVar(&opts.Tick, "tick", "", "emit EVENT periodically, as EVENT=DURATION (e.g. E12=1s)")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 1, "number of --tick events to deliver")

	return cmd
}

func runEvents(cmd *cobra.Command, opts *RunOptions, args []string) error {
	if err := opts.setup(cmd); err != nil {
		return err
	}
	cfg := opts.Config
	flags := cmd.Flags()
	if !flags.Changed("journal") {
		opts.Journal = cfg.Journal
	}
	if !flags.Changed("metrics-addr") {
		opts.MetricsAddr = cfg.MetricsAddr
	}
	if !flags.Changed("staged") {
		opts.Staged = cfg.StagedCommit
	}
	if !flags.Changed("cascade") {
		opts.Cascade = cfg.CascadeResults
	}

	var tick *tickSpec
	if opts.Tick != "" {
		spec, err := parseTick(opts.Tick, opts.Ticks)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --tick", err)
		}
		tick = &spec
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger

	machineOpts := []core.Option{
		core.WithLogger(logger),
		core.WithStagedCommit(opts.Staged),
		core.WithCascadeResults(opts.Cascade),
	}
	if opts.MachineID != "" {
		machineOpts = append(machineOpts, core.WithID(opts.MachineID))
	}

	if opts.Journal != "" {
		journal, err := production.OpenJournal(opts.Journal, logger)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Error("error closing journal", "error", err)
			}
		}()
		machineOpts = append(machineOpts, core.WithObserver(journal))
	}

	if opts.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		machineOpts = append(machineOpts, core.WithObserver(production.NewMetrics(reg)))
		stop, err := serveMetrics(opts.MetricsAddr, reg)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to serve metrics", err)
		}
		defer stop()
		logger.Info("serving metrics", "addr", opts.MetricsAddr)
	}

	records := make(chan core.EvaluationRecord, 64)
	publisher := production.NewChannelPublisher(records)
	machineOpts = append(machineOpts, core.WithObserver(publisher))
	summary := make(chan runSummary, 1)
	go summarize(records, summary)

	graph := demo.New()
	if opts.Verbose {
		graph.Instrument(logger)
	}
	m, err := core.NewMachine(graph.Root, machineOpts...)
	if err != nil {
		publisher.Close()
		return WrapExitError(ExitCommandError, "invalid machine", err)
	}

	src := extensibility.NewChannelEventSource(make(chan primitives.Event, 16))
	go feed(ctx, src, args, cmd.InOrStdin(), tick)

	out := cmd.OutOrStdout()
	failures := 0
	var writeErr error
	err = extensibility.Pump(ctx, src, m, func(o extensibility.Outcome) {
		step := StepOutput{Event: o.Event.Label(), Active: m.ActivePath(), Results: o.Results}
		if o.Err != nil {
			failures++
			step.Error = o.Err.Error()
		}
		if err := writeStep(out, opts.Format, step); err != nil && writeErr == nil {
			writeErr = err
		}
	})
	publisher.Close()
	s := <-summary
	logger.Info("run finished",
		"machine", m.ID(),
		"evaluations", s.evaluations,
		"failed", s.failed,
		"transitions", s.transitions,
		"dropped", publisher.Dropped(),
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "run interrupted", err)
	}
	if writeErr != nil {
		return WrapExitError(ExitFailure, "failed to write output", writeErr)
	}
	if failures > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d evaluation(s) failed", failures), nil)
	}
	return nil
}

type tickSpec struct {
	event string
	every time.Duration
	count int
}

// parseTick parses EVENT=DURATION.
func parseTick(value string, count int) (tickSpec, error) {
	name, every, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return tickSpec{}, fmt.Errorf("%q is not EVENT=DURATION", value)
	}
	d, err := time.ParseDuration(every)
	if err != nil {
		return tickSpec{}, fmt.Errorf("parse duration of %q: %w", value, err)
	}
	if d <= 0 {
		return tickSpec{}, fmt.Errorf("duration of %q must be positive", value)
	}
	if count < 1 {
		return tickSpec{}, fmt.Errorf("--ticks must be at least 1, got %d", count)
	}
	return tickSpec{event: name, every: d, count: count}, nil
}

type runSummary struct {
	evaluations int
	failed      int
	transitions int
}

// summarize tallies published records until the channel closes.
func summarize(records <-chan core.EvaluationRecord, out chan<- runSummary) {
	var s runSummary
	for rec := range records {
		s.evaluations++
		s.transitions += len(rec.Transitions)
		if rec.Failed() {
			s.failed++
		}
	}
	out <- s
}

// feed sends the argument events, then either the timer events of tick or, with
// no arguments and no tick, the stdin lines. It closes the source when done.
func feed(ctx context.Context, src *extensibility.ChannelEventSource, args []string, stdin io.Reader, tick *tickSpec) {
	defer src.Close()
	send := func(name string) bool {
		return src.SendContext(ctx, demo.Event(name)) == nil
	}
	for _, name := range args {
		if !send(name) {
			return
		}
	}
	if tick != nil {
		timer := extensibility.NewTimerEventSource(demo.Event(tick.event), tick.every)
		defer timer.Stop()
		for i := 0; i < tick.count; i++ {
			select {
			case ev, ok := <-timer.Events():
				if !ok || src.SendContext(ctx, ev) != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
		return
	}
	if len(args) > 0 {
		return
	}
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if !send(name) {
			return
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
