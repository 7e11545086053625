package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	amocrm "github.com/block/amocrm-go"
	"github.com/block/amocrm-go/logger"
	"github.com/block/amocrm-go/rate"
)

const (
	envBaseUrl     = "AMOCRM_BASE_URL"
	envAccessToken = "AMOCRM_ACCESS_TOKEN"
)

var (
	baseUrl          string
	accessToken      string
	permitsPerSecond int
	httpRps          float64
	pageLimit        int
	timeout          time.Duration
	logLevel         string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "amocrm",
	Short:         "amocrm - leads, contacts and tasks from an amoCRM account",
	Long:          "Lists amoCRM leads with their main contact and looks up lead tasks, staying under the account's request rate limit.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseUrl, "base-url", "", "amoCRM account address, e.g. https://example.amocrm.ru (env "+envBaseUrl+")")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", "", "long-lived access token (env "+envAccessToken+")")
	rootCmd.PersistentFlags().IntVar(&permitsPerSecond, "rps", 2, "requests per second sent to amoCRM")
	rootCmd.PersistentFlags().Float64Var(&httpRps, "http-rps", 0, "hard ceiling on HTTP requests per second, on top of --rps (0 = off)")
	rootCmd.PersistentFlags().IntVar(&pageLimit, "page-limit", 50, "leads per page request")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "timeout of a single HTTP request")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(taskCmd)
}

type settings struct {
	baseUrl     string
	accessToken string
}

// resolveSettings fills in what the flags left empty from the environment.
func resolveSettings(getenv func(string) string) (settings, error) {
	s := settings{baseUrl: baseUrl, accessToken: accessToken}
	if s.baseUrl == "" {
		s.baseUrl = getenv(envBaseUrl)
	}
	if s.accessToken == "" {
		s.accessToken = getenv(envAccessToken)
	}
	if s.baseUrl == "" {
		return s, fmt.Errorf("amoCRM address is not set: use --base-url or %s", envBaseUrl)
	}
	if s.accessToken == "" {
		return s, fmt.Errorf("access token is not set: use --token or %s", envAccessToken)
	}
	return s, nil
}

func newLogger() logger.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logger.NewSlog(slog.New(handler))
}

func newLimiter(perSecond float64) rate.Limiter {
	if perSecond <= 0 {
		return rate.NoopLimiter{}
	}
	return rate.NewWaitLimiter(perSecond, 1)
}

// newDashboard builds a started dashboard; the caller stops it.
func newDashboard() (*amocrm.Dashboard, error) {
	s, err := resolveSettings(os.Getenv)
	if err != nil {
		return nil, err
	}
	log := newLogger()

	client := amocrm.NewClient(
		s.accessToken,
		amocrm.WithBaseUrl(s.baseUrl),
		amocrm.WithTimeout(timeout),
		amocrm.WithRateLimiter(newLimiter(httpRps)),
		amocrm.WithLogger(log),
	)
	d, err := amocrm.NewDashboard(
		client,
		amocrm.WithDashboardPermitsPerSecond(permitsPerSecond),
		amocrm.WithDashboardPageLimit(pageLimit),
		amocrm.WithDashboardLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid --rps %d: %w", permitsPerSecond, err)
	}
	d.Start()
	return d, nil
}
