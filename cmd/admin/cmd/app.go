package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/app"
	"github.com/eehealth/api/internal/config"
	"github.com/eehealth/api/internal/logger"
	"github.com/eehealth/api/internal/validation"
	"github.com/spf13/cobra"
)

// loadConfig reads config and sends logs to stderr so stdout stays JSON.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{
		Dev:       cfg.IsDevelopment(),
		SentryDSN: cfg.SentryDSN,
		LogFile:   cfg.LogFile,
		Output:    cmd.ErrOrStderr(),
	})
	return cfg
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	return app.New(ctx, loadConfig(cmd))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dateFlag parses value, or returns today in the configured time zone when it is empty.
func dateFlag(loc *time.Location, name, value string) (civil.Date, error) {
	if value == "" {
		return civil.DateOf(time.Now().In(loc)), nil
	}
	d, err := validation.ParseDate(name, value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}
