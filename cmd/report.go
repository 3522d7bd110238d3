package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	reportrender "github.com/clubops/eventwatch/internal/adapters/render/report"
	"github.com/clubops/eventwatch/internal/domain"
)

func runReport(cmd *cobra.Command, app *app, oldData, newData string) error {
	ctx := cmd.Context()

	oldEvents, err := app.service.LoadSnapshot(ctx, oldData)
	if err != nil {
		return err
	}

	var newEvents []domain.Event
	if newData != "" {
		newEvents, err = app.service.LoadSnapshot(ctx, newData)
	} else {
		newEvents, err = fetchEvents(ctx, cmd, app)
	}
	if err != nil {
		return err
	}

	entries, err := app.service.Report(oldEvents, newEvents)
	if err != nil {
		return err
	}

	rendered, err := reportrender.Render(entries)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// fetchEvents authenticates, fetches the live collection, and saves it as a
// new snapshot, showing a spinner on stderr while the network calls run.
func fetchEvents(ctx context.Context, cmd *cobra.Command, app *app) ([]domain.Event, error) {
	var events []domain.Event

	err := runFetchSpinner(ctx, cmd.ErrOrStderr(), func(ctx context.Context) error {
		if err := authenticate(ctx, app); err != nil {
			return err
		}
		fetched, err := app.service.CaptureSnapshot(ctx)
		if err != nil {
			return err
		}
		events = fetched
		return nil
	})
	return events, err
}

func authenticate(ctx context.Context, app *app) error {
	switch {
	case app.config.APIKey != "":
		return app.tokens.AuthenticateAPIKey(ctx, app.config.APIKey, app.config.Scope)
	case app.config.Username != "":
		return app.tokens.AuthenticateContact(ctx, app.config.Username, app.config.Password)
	default:
		return errors.New("no api_key or contact credentials configured")
	}
}
