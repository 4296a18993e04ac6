package cmd

import (
	"context"

	"github.com/google/uuid"

	"github.com/quocvuong92/ai-terminal/internal/explainer"
	"github.com/quocvuong92/ai-terminal/internal/logging"
	"github.com/quocvuong92/ai-terminal/internal/session"
)

// runTerminal runs the interactive session until the user leaves and
// returns its exit status
func (app *App) runTerminal(ctx context.Context) int {
	cfg := app.loadConfig()
	logging.SetColors(cfg.EnableColors)

	sessionID := uuid.NewString()
	opts := []session.Option{
		session.WithSessionID(sessionID),
		session.WithPrinter(app.printer(cfg)),
		session.WithReader(app.lineReader()),
	}
	if app.client != nil && cfg.AIEnabled() {
		ai := explainer.New(app.client)
		defer ai.Close()
		opts = append(opts, session.WithExplainer(ai))
	}

	ctrl := session.New(cfg, opts...)
	logger.Debug("Starting terminal session", logging.Fields{
		"session":     sessionID,
		"aiAvailable": ctrl.AIAvailable(),
		"config":      cfg.Source,
	})
	return ctrl.Run(ctx)
}
