package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/samber/lo"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "xtree: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return newApp(os.Stdin, os.Stdout).Run(args)
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	app := &cli.App{
		Name:   "xtree",
		Usage:  "balanced binary search tree playground",
		Reader: in,
		Writer: out,
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level, debug|info|warn|error",
			Value:   "info",
			EnvVars: []string{"XLOG_LVL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log encoder, json|text",
			Value:   "text",
			EnvVars: []string{"XTREE_LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "metrics",
			Usage:   "metrics exporter, none|stdout|prometheus",
			Value:   "none",
			EnvVars: []string{"XTREE_METRICS"},
		},
	}

	kindFlag := &cli.StringFlag{
		Name:    "kind",
		Usage:   "tree variant, avl|bst",
		Value:   "avl",
		EnvVars: []string{"XTREE_KIND"},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "run",
			Usage:     "apply the ops and print the tree report",
			ArgsUsage: "[-- tokens...]",
			Flags: []cli.Flag{
				kindFlag,
				&cli.StringFlag{
					Name:  "file",
					Usage: "read the ops from the file instead of stdin",
				},
				&cli.BoolFlag{
					Name:  "draw",
					Usage: "print the tree sideways",
				},
				&cli.BoolFlag{
					Name:  "layout",
					Usage: "print the node and edge coordinates, and the search path of every find",
				},
				&cli.BoolFlag{
					Name:  "compare",
					Usage: "print the tree before and after the last input line side by side",
				},
				&cli.Float64Flag{
					Name:  "width",
					Value: 1400,
				},
				&cli.Float64Flag{
					Name:  "height",
					Value: 1000,
				},
				&cli.Float64Flag{
					Name:  "radius",
					Value: 35,
				},
			},
			Action: runAction,
		},
		{
			Name:  "watch",
			Usage: "re-apply the ops file on every change",
			Flags: []cli.Flag{
				kindFlag,
				&cli.StringFlag{
					Name:     "file",
					Usage:    "the ops file to watch",
					Required: true,
				},
				&cli.StringFlag{
					Name:    "metrics-listen",
					Usage:   "address serving /metrics with --metrics prometheus",
					Value:   "127.0.0.1:9464",
					EnvVars: []string{"XTREE_METRICS_LISTEN"},
				},
			},
			Action: watchAction,
		},
	}
	return app
}

type appEnv struct {
	logger   xlog.XLogger
	shutdown func(ctx context.Context) error
}

func isPrometheus(typ string) bool {
	return strings.EqualFold(strings.TrimSpace(typ), string(observability.PrometheusExporter))
}

func newAppEnv(cctx *cli.Context) (*appEnv, error) {
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cctx.String("log-level"))),
		xlog.WithXLoggerEncoder(xlog.ParseLogEncoder(cctx.String("log-format"))),
		xlog.WithXLoggerWriter(xlog.StdErr),
	)
	shutdown, err := observability.InitMetricsExporter(cctx.String("metrics"))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(cctx.String("metrics"), string(observability.NoneExporter)) {
		observability.InitAppStats(cctx.Context, "xtree", nil)
	}
	return &appEnv{logger: logger, shutdown: shutdown}, nil
}

func (env *appEnv) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := env.shutdown(ctx)
	// Sync of a terminal stderr may fail, it is not worth reporting.
	_ = env.logger.Sync()
	return err
}

func readInput(cctx *cli.Context) (string, error) {
	if cctx.Args().Present() {
		return strings.Join(cctx.Args().Slice(), " "), nil
	}
	if path := cctx.String("file"); path != "" {
		return readOpsFile(path)
	}
	data, err := io.ReadAll(cctx.App.Reader)
	return string(data), err
}

func runAction(cctx *cli.Context) (err error) {
	// Nothing would be left to scrape once run returns.
	if isPrometheus(cctx.String("metrics")) {
		return ErrMetricsNeedWatch
	}
	env, err := newAppEnv(cctx)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, env.close())
	}()

	input, err := readInput(cctx)
	if err != nil {
		return err
	}
	stats, err := observability.NewTreeStats(nil, cctx.String("kind"))
	if err != nil {
		return err
	}
	s, err := newSession(cctx.String("kind"), env.logger, stats)
	if err != nil {
		return err
	}
	defer s.release()

	ops, runErr := s.parse(input)
	finds := lo.FilterMap(ops, func(op treeOp, _ int) (int, bool) {
		return op.val, op.kind == opFind
	})
	var before tree.OrderedTree[int]
	if cctx.Bool("compare") {
		base, last := splitLastBatch(ops)
		runErr = multierr.Append(runErr, s.runOps(cctx.Context, base))
		before = s.tree.Clone()
		defer before.Release()
		ops = last
	}
	runErr = multierr.Append(runErr, s.runOps(cctx.Context, ops))

	cfg := viewCfg{
		draw:   cctx.Bool("draw"),
		layout: cctx.Bool("layout"),
		width:  cctx.Float64("width"),
		height: cctx.Float64("height"),
		radius: cctx.Float64("radius"),
	}
	out := cctx.App.Writer
	if before == nil {
		return multierr.Append(runErr, writeView(out, "", s.tree, cfg, 0, finds))
	}
	// The old tree takes the left half of the canvas, the new one the right.
	cfg.width /= 2
	if err = writeView(out, "before", before, cfg, 0, nil); err != nil {
		return multierr.Append(runErr, err)
	}
	_, _ = io.WriteString(out, "\n")
	return multierr.Append(runErr, writeView(out, "after", s.tree, cfg, cfg.width, finds))
}

func watchAction(cctx *cli.Context) (err error) {
	env, err := newAppEnv(cctx)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, env.close())
	}()

	opts := []fx.Option{
		fx.WithLogger(func() fxevent.Logger {
			return xlog.NewFxXLogger(env.logger)
		}),
		fx.Supply(watchCfg{
			path: cctx.String("file"),
			kind: cctx.String("kind"),
			out:  cctx.App.Writer,
		}),
		fx.Provide(
			func() xlog.XLogger { return env.logger },
			func() (*observability.TreeStats, error) {
				return observability.NewTreeStats(nil, cctx.String("kind"))
			},
			newOpsWatcher,
		),
		fx.Invoke(registerOpsWatcher),
	}
	if isPrometheus(cctx.String("metrics")) {
		opts = append(opts,
			fx.Provide(func(logger xlog.XLogger) *metricsServer {
				return newMetricsServer(cctx.String("metrics-listen"), logger)
			}),
			fx.Invoke(registerMetricsServer),
		)
	}
	app := fx.New(opts...)
	if err = app.Err(); err != nil {
		return err
	}
	if err = app.Start(cctx.Context); err != nil {
		return err
	}

	select {
	case sig := <-app.Done():
		env.logger.Info("stop watching", zap.String("signal", sig.String()))
	case <-cctx.Context.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	return app.Stop(stopCtx)
}
