package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/amirasaad/fxconvert/infra/initializer"
	"github.com/amirasaad/fxconvert/pkg/app"
	"github.com/amirasaad/fxconvert/pkg/config"
	"golang.org/x/term"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  convert <amount> <BASE> <TARGET>   convert an amount at the current rate
  rate <BASE> <TARGET>               show the current rate
  currencies                         list supported currencies`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		return 1
	}
	logger := initializer.NewLogger(os.Stderr, cfg.Log)
	deps, err := initializer.InitializeDependenciesWithLogger(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize:", err)
		return 1
	}
	application := app.New(deps, cfg)
	defer application.Close() //nolint: errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{
		svc: application.ExchangeService,
		out: newPrinter(os.Stdout, os.Stderr, term.IsTerminal(int(os.Stdout.Fd()))),
	}
	if err := cli.Execute(ctx, args); err != nil {
		cli.out.Error(err)
		return 1
	}
	return 0
}
