package commands

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/recipefeed/internal/config"
)

// Global is shared with every subcommand through kong bindings.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"recipefeed.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Recipes   RecipesCmd   `cmd:"" help:"Show the recipe list (cached first unless --refresh)"`
	Search    SearchCmd    `cmd:"" help:"Search recipes by free text"`
	Joke      JokeCmd      `cmd:"" help:"Fetch a random food joke"`
	Favorites FavoritesCmd `cmd:"" help:"Manage favorite recipes"`
	Prefs     PrefsCmd     `cmd:"" help:"Show or change the meal and diet filter"`
	Network   NetworkCmd   `cmd:"" help:"Report connectivity"`
	Serve     ServeCmd     `cmd:"" help:"Run the HTTP API with background refresh"`
	Watch     WatchCmd     `cmd:"" help:"Print outcome events broadcast by a running server"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`

	cfg *config.Config `kong:"-"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger
	if g.Out == nil {
		g.Out = os.Stdout
	}
	return nil
}

// LoadConfig reads the configuration once, falling back to defaults when the
// file does not exist, and switches logging to the configured level/format.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadOptional(c.Config)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(logger)
	g.Logger = logger
	c.cfg = cfg
	return cfg, nil
}

// printJSONLines writes each value as one compact JSON line.
func printJSONLines[T any](w io.Writer, values []T) error {
	enc := json.NewEncoder(w)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
