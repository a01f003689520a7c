package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/gridview/internal/ctxlog"
	"github.com/specialistvlad/gridview/internal/datasource"
	"github.com/specialistvlad/gridview/internal/tabledef"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	def    *tabledef.Model
	items  []Item
}

// NewApp loads the definition and the data named by cfg. Rendered output
// goes to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	def, err := tabledef.Load(ctx, cfg.DefPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load table definition: %w", err)
	}
	items, err := datasource.Load(ctx, cfg.DataPath, datasource.Options{Sheet: cfg.Sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	logger.Debug("Definition and data loaded.", "columns", len(def.Columns), "items", len(items))

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		def:    def,
		items:  items,
	}, nil
}
