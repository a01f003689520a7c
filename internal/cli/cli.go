package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/gridview/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Env holds the settings read from the environment. Flags override them.
type Env struct {
	LogLevel  string `env:"GRIDVIEW_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GRIDVIEW_LOG_FORMAT" envDefault:"text"`
	PageSize  int    `env:"GRIDVIEW_PAGE_SIZE"`
}

// ParseEnv reads Env from environ, or from the process environment when
// environ is nil.
func ParseEnv(environ map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

type renderFlags struct {
	def, data, sheet     string
	sort, filter, search string
	group                []string
	page, pageSize       int
	expandAll            bool
	logLevel, logFormat  string
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer, environ map[string]string) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	e, err := ParseEnv(environ)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	var config *app.Config
	var f renderFlags
	root := &cobra.Command{
		Use:   "gridview",
		Short: "Render tables from declarative definitions",
		Long: `gridview builds a table view model from a table definition (.hcl or .yaml)
and a data file (.json, .yaml, .xlsx or .hcl), then prints its header rows
and the current page as text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	render := &cobra.Command{
		Use:   "render",
		Short: "Print the header rows and the current page of a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := newConfig(cmd, f, e)
			if err != nil {
				return err
			}
			config = cfg
			return nil
		},
	}

	flags := render.Flags()
	flags.StringVar(&f.def, "def", "", "Path to the table definition (.hcl, .yaml).")
	flags.StringVar(&f.data, "data", "", "Path to the data file (.json, .yaml, .xlsx, .hcl).")
	flags.StringVar(&f.sheet, "sheet", "", "Spreadsheet sheet to read. Defaults to the first sheet.")
	flags.StringVar(&f.sort, "sort", "", `Sort keys in order-by syntax, e.g. "name desc, age".`)
	flags.StringVar(&f.filter, "filter", "", `Filter expression, e.g. 'age > 30 AND team = "core"'.`)
	flags.StringVar(&f.search, "search", "", "Case-insensitive text every row must contain.")
	flags.StringSliceVar(&f.group, "group", nil, "Column ids to group by.")
	flags.IntVar(&f.page, "page", 0, "Zero-based page index.")
	flags.IntVar(&f.pageSize, "page-size", e.PageSize, "Rows per page. Enables pagination. [$GRIDVIEW_PAGE_SIZE]")
	flags.BoolVar(&f.expandAll, "expand-all", false, "Expand every row with sub rows.")
	flags.StringVar(&f.logLevel, "log-level", e.LogLevel, "Logging level: 'debug', 'info', 'warn', 'error'. [$GRIDVIEW_LOG_LEVEL]")
	flags.StringVar(&f.logFormat, "log-format", e.LogFormat, "Log output format: 'text' or 'json'. [$GRIDVIEW_LOG_FORMAT]")
	_ = render.MarkFlagRequired("def")
	_ = render.MarkFlagRequired("data")

	root.AddCommand(render)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		slog.Debug("No command run, exiting.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func newConfig(cmd *cobra.Command, f renderFlags, e Env) (*app.Config, error) {
	cfg := app.Config{
		DefPath:   f.def,
		DataPath:  f.data,
		Sheet:     f.sheet,
		Sort:      f.sort,
		Filter:    f.filter,
		Search:    f.search,
		Group:     f.group,
		ExpandAll: f.expandAll,
		LogFormat: strings.ToLower(f.logFormat),
		LogLevel:  strings.ToLower(f.logLevel),
	}
	if cmd.Flags().Changed("page") {
		page := f.page
		cfg.Page = &page
	}
	if cmd.Flags().Changed("page-size") || e.PageSize > 0 {
		size := f.pageSize
		cfg.PageSize = &size
	}
	return app.NewConfig(cfg)
}
