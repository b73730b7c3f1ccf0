package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/versions"
	"github.com/tsukumogami/versions/internal/buildinfo"
	"github.com/tsukumogami/versions/internal/config"
	"github.com/tsukumogami/versions/internal/log"
	"github.com/tsukumogami/versions/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	mirrors  []string
	timeout  time.Duration
	strategy string
	jsonOut  bool
	quiet    bool
	verbose  bool
	debug    bool
}

// determineLogLevel picks the log level from the flags, then from
// VERSIONS_DEBUG, VERSIONS_VERBOSE and VERSIONS_QUIET. Any flag wins over
// every environment variable.
func (g *globalOptions) determineLogLevel() slog.Level {
	if g.quiet || g.verbose || g.debug {
		return log.LevelFor(g.quiet, g.verbose, g.debug)
	}
	return log.LevelFor(
		isTruthy(os.Getenv("VERSIONS_QUIET")),
		isTruthy(os.Getenv("VERSIONS_VERBOSE")),
		isTruthy(os.Getenv("VERSIONS_DEBUG")),
	)
}

// settings layers the command-line flags over the config file and
// environment.
func (g *globalOptions) settings(cmd *cobra.Command) (versions.Settings, error) {
	s, err := versions.LoadSettings()
	if err != nil {
		return s, usageError(err)
	}

	if len(g.mirrors) > 0 {
		s.Mirrors = append([]string(nil), g.mirrors...)
	}
	if cmd.Flags().Changed("timeout") {
		s.Timeout = config.ClampTimeout("--timeout", g.timeout)
	}
	if g.strategy != "" {
		st, err := version.ParseStrategy(g.strategy)
		if err != nil {
			return s, usageError(fmt.Errorf("--strategy: %w", err))
		}
		s.Strategy = st
	}

	return s, nil
}

// newResolver builds a Resolver from the effective settings, logging
// through the process-wide logger.
func (g *globalOptions) newResolver(cmd *cobra.Command) (*version.Resolver, error) {
	s, err := g.settings(cmd)
	if err != nil {
		return nil, err
	}
	log.Default().Debug("resolver configured",
		"mirrors", len(s.Mirrors), "timeout", s.Timeout.String(), "strategy", s.Strategy.String())

	opts := append(s.Options(), version.WithLogger(log.Default()))
	return version.New(opts...), nil
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "versions",
		Short: "Look up the latest version of a tool from a hosted manifest",
		Long: `versions resolves a tool name to its latest semantic version using a
small manifest hosted on one or more mirrors.

Mirrors are tried in order (or raced with --strategy race). A failing
mirror is skipped; the command only fails when every mirror failed.

Configuration, lowest to highest precedence:
  built-in mirrors, ~/.versions/config.toml, VERSIONS_MIRRORS,
  VERSIONS_TIMEOUT and VERSIONS_STRATEGY, command-line flags.`,
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDefault(log.NewText(cmd.ErrOrStderr(), g.determineLogLevel()))
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringArrayVar(&g.mirrors, "mirror", nil, "manifest URL to use (repeatable, replaces configured mirrors)")
	pf.DurationVar(&g.timeout, "timeout", config.DefaultTimeout, "per-request timeout")
	pf.StringVar(&g.strategy, "strategy", "", "how mirrors are combined: sequential or race")
	pf.BoolVar(&g.jsonOut, "json", false, "print results as JSON")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "only print errors")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "print which mirror answered")
	pf.BoolVar(&g.debug, "debug", false, "print every mirror attempt")

	root.AddCommand(newGetCmd(g))
	root.AddCommand(newListCmd(g))
	root.AddCommand(newConfigCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(cmd.ErrOrStderr(), err)
	}
	os.Exit(exitCodeFor(err))
}
