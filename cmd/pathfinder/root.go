package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/pathfinder"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "pathfinder",
		Short: "Steepest-descent quadrature for oscillatory integrals",
		Long: `pathfinder deforms the contour of ∫_a^b f(z)·exp(i·k·g(z)) dz onto
paths of steepest descent and prints quadrature nodes and weights such that
Σ f(zᵢ)·wᵢ approximates the integral for smooth f.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.OutputPaths = []string{"stderr"}
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")
	root.AddCommand(a.newQuadCmd())

	return root
}

type quadFlags struct {
	coeffs   string
	freq     string
	a, b     string
	aInf     float64
	bInf     float64
	n        int
	config   string
	format   string
	geometry bool
	accel    bool
	timeout  time.Duration
}

func (a *app) newQuadCmd() *cobra.Command {
	var f quadFlags

	cmd := &cobra.Command{
		Use:   "quad",
		Short: "Compute nodes and weights",
		Long: `Computes a quadrature rule for ∫_a^b f(z)·exp(i·k·g(z)) dz.

Coefficients are listed highest degree first; complex values use Go syntax
(e.g. "1+2i"). An endpoint given with --a-inf/--b-inf is infinity along that
angle (radians) and must lie in a valley of the phase.

Example:
  pathfinder quad --coeffs 1,0,0 --freq 1000 --a -1 --b 1 -n 20 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuad(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.coeffs, "coeffs", "", "phase coefficients, highest degree first (comma separated)")
	fl.StringVar(&f.freq, "freq", "1", "frequency k (complex allowed)")
	fl.StringVar(&f.a, "a", "-1", "finite lower endpoint")
	fl.StringVar(&f.b, "b", "1", "finite upper endpoint")
	fl.Float64Var(&f.aInf, "a-inf", 0, "lower endpoint at infinity along this angle")
	fl.Float64Var(&f.bInf, "b-inf", 0, "upper endpoint at infinity along this angle")
	fl.IntVarP(&f.n, "points", "n", 20, "nodes per contour piece")
	fl.StringVar(&f.config, "config", "", "YAML config file")
	fl.StringVar(&f.format, "format", "", "output format: yaml or json (overrides config)")
	fl.BoolVar(&f.geometry, "geometry", false, "include contour geometry in the output")
	fl.BoolVar(&f.accel, "accelerated", false, "use the concurrent implementation")
	fl.DurationVar(&f.timeout, "timeout", 0, "abort after this long (0: no limit)")
	_ = cmd.MarkFlagRequired("coeffs")

	return cmd
}

func (a *app) runQuad(cmd *cobra.Command, f quadFlags) error {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}
	if f.format != "" {
		cfg.Format = f.format
	}
	if f.geometry {
		cfg.Geometry = true
	}
	if f.accel {
		cfg.Accelerated = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	coeffs, err := parseComplexList(f.coeffs)
	if err != nil {
		return fmt.Errorf("--coeffs: %w", err)
	}
	k, err := parseComplex(f.freq)
	if err != nil {
		return fmt.Errorf("--freq: %w", err)
	}
	lo, err := endpoint(cmd, "a", f.a, f.aInf)
	if err != nil {
		return err
	}
	hi, err := endpoint(cmd, "b", f.b, f.bInf)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	opts := append(cfg.Options(), pathfinder.WithLogger(a.logger))
	res, err := pathfinder.QuadContext(ctx, lo, hi, coeffs, k, f.n, opts...)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		a.logger.Info("warning", zap.Stringer("warning", w))
	}

	return writeReport(cmd.OutOrStdout(), newReport(res), cfg.Format)
}

// endpoint reads a finite value or, when the -inf flag was given, a
// direction at infinity.
func endpoint(cmd *cobra.Command, name, finite string, angle float64) (pathfinder.Endpoint, error) {
	if cmd.Flags().Changed(name + "-inf") {
		if cmd.Flags().Changed(name) {
			return pathfinder.Endpoint{}, fmt.Errorf("--%s and --%s-inf are mutually exclusive", name, name)
		}
		return pathfinder.Infinite(angle), nil
	}
	z, err := parseComplex(finite)
	if err != nil {
		return pathfinder.Endpoint{}, fmt.Errorf("--%s: %w", name, err)
	}

	return pathfinder.Finite(z), nil
}

// parseComplex accepts anything strconv.ParseComplex does ("2", "1-3i",
// "(0.5+2i)").
func parseComplex(s string) (complex128, error) {
	return strconv.ParseComplex(strings.TrimSpace(s), 128)
}

func parseComplexList(s string) ([]complex128, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty coefficient list")
	}
	parts := strings.Split(s, ",")
	out := make([]complex128, len(parts))
	for i, p := range parts {
		z, err := parseComplex(p)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", i, err)
		}
		out[i] = z
	}

	return out, nil
}
