package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/exo9planet/SubWallet-Extension/internal/balance"
	"github.com/exo9planet/SubWallet-Extension/internal/chain"
	"github.com/exo9planet/SubWallet-Extension/internal/config"
	"github.com/exo9planet/SubWallet-Extension/internal/httpx"
	"github.com/exo9planet/SubWallet-Extension/internal/routing"
	"github.com/exo9planet/SubWallet-Extension/internal/routing/hydration"
	"github.com/exo9planet/SubWallet-Extension/internal/scenario"
	"github.com/exo9planet/SubWallet-Extension/internal/store"
	"github.com/exo9planet/SubWallet-Extension/internal/swap"
	"github.com/exo9planet/SubWallet-Extension/internal/swap/hydradx"
	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

type runtimeState struct {
	runner   *Runner
	flags    config.GlobalFlags
	settings config.Settings
	log      *zap.Logger

	handler *hydradx.Handler
	store   *store.Store
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	state.close()
	if err == nil {
		return 0
	}
	state.renderError(err)
	return 1
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-engine",
		Short: "Cross-chain swap quoting and process orchestration",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "load configuration", err)
			}
			s.settings = settings

			log, err := buildLogger(settings.LogLevel)
			if err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "build logger", err)
			}
			s.log = log

			chains, balances, router, err := s.buildWorld()
			if err != nil {
				return err
			}
			s.handler = hydradx.New(chains, balances, router, log, hydradx.Config{
				Chain:             settings.Venue.Chain,
				QuoteTimeout:      settings.Venue.QuoteTimeout,
				MinSwapAmount:     settings.Venue.MinSwapAmount,
				AlternativeAssets: settings.Venue.AlternativeAssets,
				InitTimeout:       settings.Venue.InitTimeout,
			})

			processStore, err := store.Open(settings.StorePath, settings.StoreLockPath)
			if err != nil {
				return swaperr.Wrap(swaperr.KindUnknown, "open process store", err)
			}
			s.store = processStore
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&s.flags.ConfigPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&s.flags.ScenarioPath, "scenario", "", "path to an offline scenario fixture")
	cmd.PersistentFlags().StringVar(&s.flags.StorePath, "store", "", "path to the process database")
	cmd.PersistentFlags().StringVar(&s.flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&s.flags.Timeout, "timeout", "", "HTTP timeout, e.g. 10s")
	cmd.PersistentFlags().IntVar(&s.flags.Retries, "retries", -1, "HTTP retry count")
	cmd.PersistentFlags().StringVar(&s.flags.RouterURL, "router-url", "", "route-finding service base URL")

	cmd.AddCommand(s.newQuoteCommand())
	cmd.AddCommand(s.newPlanCommand())
	cmd.AddCommand(s.newValidateCommand())
	cmd.AddCommand(s.newSubmitCommand())
	cmd.AddCommand(s.newProcessesCommand())
	return cmd
}

// buildWorld wires the chain, balance, and routing collaborators. With
// a scenario everything is offline and deterministic; without one the
// route lookup goes to the live routing service, and balances come
// from whatever the scenario-less static service holds (nothing).
func (s *runtimeState) buildWorld() (chain.Service, balance.Service, routing.Router, error) {
	if s.settings.ScenarioPath != "" {
		world, err := scenario.Load(s.settings.ScenarioPath)
		if err != nil {
			return nil, nil, nil, swaperr.Wrap(swaperr.KindUnknown, "load scenario", err)
		}
		return world.Chains, world.Balances, world.Router, nil
	}

	registry := chain.NewRegistry(nil, nil)
	httpClient := httpx.New(s.settings.Timeout, s.settings.Retries)
	router := hydration.New(httpClient, s.settings.RouterURL)
	return registry, balance.NewStatic(), router, nil
}

func (s *runtimeState) close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// envelope is the CLI's uniform JSON output shape.
type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Errors  []envelopeErr  `json:"errors,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type envelopeErr struct {
	Kind     string            `json:"kind"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (s *runtimeState) emit(data any, meta map[string]any) error {
	return writeEnvelope(s.runner.stdout, envelope{Success: true, Data: data, Meta: meta})
}

func (s *runtimeState) renderError(err error) {
	env := envelope{Success: false, Errors: []envelopeErr{toEnvelopeErr(err)}}
	if werr := writeEnvelope(s.runner.stdout, env); werr != nil {
		fmt.Fprintln(s.runner.stderr, err)
	}
}

func toEnvelopeErr(err error) envelopeErr {
	if typed, ok := swaperr.As(err); ok {
		return envelopeErr{Kind: string(typed.Kind), Message: typed.Message, Metadata: typed.Metadata}
	}
	return envelopeErr{Kind: string(swaperr.KindUnknown), Message: err.Error()}
}

func writeEnvelope(w io.Writer, env envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

func pairFromFlags(from, to string) (swap.Pair, error) {
	if from == "" || to == "" {
		return swap.Pair{}, swaperr.New(swaperr.KindUnknown, "both --from and --to asset slugs are required")
	}
	return swap.Pair{From: from, To: to}, nil
}
