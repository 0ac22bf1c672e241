package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/wadewooldridge/coin-calculator/internal/application"
	"github.com/wadewooldridge/coin-calculator/internal/calculator"
	"github.com/wadewooldridge/coin-calculator/internal/config"
	"github.com/wadewooldridge/coin-calculator/internal/logging"
)

var signalNotify = signal.Notify

type cli struct {
	app *kingpin.Application

	serve                *kingpin.CmdClause
	configFile           *string
	port                 *string
	denominations        *string
	serveMaxTotal        *int
	serveMaxDenomination *int
	rateLimitRPS         *float64
	rateLimitBurst       *int
	logLevel             *string

	solve              *kingpin.CmdClause
	solveDenominations *string
	solveTotal         *string
	maxTotal           *int
	maxDenomination    *int
}

func newCLI() *cli {
	c := &cli{
		app: kingpin.New("coin-calculator", "Coin Calculator - finds the fewest coins that make up a total"),
	}

	c.serve = c.app.Command("serve", "Run the HTTP service").Default()
	c.configFile = c.serve.Flag("config", "Path to YAML configuration file").String()
	c.port = c.serve.Flag("port", "HTTP port exposed by the service").String()
	c.denominations = c.serve.Flag("denominations", "Comma-separated initial denominations").String()
	c.serveMaxTotal = c.serve.Flag("max-total", "Largest accepted total (0 keeps the configured value)").Default("0").Int()
	c.serveMaxDenomination = c.serve.Flag("max-denomination", "Largest accepted denomination (0 keeps the configured value)").Default("0").Int()
	c.rateLimitRPS = c.serve.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	c.rateLimitBurst = c.serve.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	c.logLevel = c.serve.Flag("log-level", "Log level (debug, info, warn, error)").String()

	c.solve = c.app.Command("solve", "Print the fewest coins for a total and exit")
	c.solveDenominations = c.solve.Flag("denominations", "Comma-separated denominations, in display order").Default("25,10,5,1").String()
	c.maxTotal = c.solve.Flag("max-total", "Largest accepted total").Default("0").Int()
	c.maxDenomination = c.solve.Flag("max-denomination", "Largest accepted denomination").Default("0").Int()
	c.solveTotal = c.solve.Arg("total", "Amount to decompose").Required().String()

	return c
}

func main() {
	c := newCLI()
	err := c.run(os.Args[1:], os.Stdout)
	c.app.FatalIfError(err, "")
}

func (c *cli) run(args []string, out io.Writer) error {
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	switch command {
	case c.solve.FullCommand():
		return c.runSolve(out)
	default:
		return c.runServe()
	}
}

func (c *cli) runSolve(out io.Writer) error {
	denominations, err := config.ParseDenominations(*c.solveDenominations)
	if err != nil {
		return fmt.Errorf("parse denominations: %w", err)
	}

	limits := calculator.Limits{MaxTotal: *c.maxTotal, MaxDenomination: *c.maxDenomination}
	engine, err := calculator.New(denominations, calculator.WithLimits(limits))
	if err != nil {
		return err
	}

	total, err := engine.ParseTotal(*c.solveTotal)
	if err != nil {
		return err
	}
	sol, err := engine.SolveDetailed(total)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "denomination\tquantity\t")
	for _, coin := range sol.Breakdown() {
		fmt.Fprintf(tw, "%d\t%d\t\n", coin.Denomination, coin.Quantity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "coins: %d\nalgorithm: %s\n", sol.Coins, sol.Algorithm)
	return nil
}

func (c *cli) runServe() error {
	cfg, err := config.Load(c.serveOverrides())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return err
	}

	if err := app.Start(); err != nil {
		logger.Error("failed to start server", zap.Error(err))
		return err
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return nil
}

// serveOverrides collects the serve flags that were explicitly set.
func (c *cli) serveOverrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *c.configFile,
	}

	if *c.port != "" {
		overrides.Port = c.port
	}

	if *c.denominations != "" {
		overrides.DenominationsStr = c.denominations
	}

	if *c.serveMaxTotal > 0 {
		overrides.MaxTotal = c.serveMaxTotal
	}

	if *c.serveMaxDenomination > 0 {
		overrides.MaxDenomination = c.serveMaxDenomination
	}

	if *c.logLevel != "" {
		overrides.LogLevel = c.logLevel
	}

	if *c.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = c.rateLimitRPS
	}

	if *c.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = c.rateLimitBurst
	}

	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
