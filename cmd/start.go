package cmd

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/quocvuong92/ai-terminal/internal/config"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

var startLogger = logging.Named("commands:start")

func (app *App) runStart() {
	cfg := app.loadConfig()

	app.printer(cfg).Highlight(fmt.Sprintf("Starting the app : port %d", cfg.Port))
	startLogger.Debug("Received configuration in start", cfg.LogFields())
}

func (app *App) runInitConfig() int {
	p := display.NewPrinter(app.out, !color.NoColor)

	path, err := config.CreateDefaultConfigFile()
	if err != nil {
		p.ShowError(err.Error())
		return 1
	}
	p.Success("Created config file at " + path)
	p.Info("Set apiKey in it to enable the AI features.")
	logger.Debug("Wrote default config", logging.Fields{"path": path})
	return 0
}
