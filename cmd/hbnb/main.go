package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hbnb/internal/codec"
	"hbnb/internal/config"
	"hbnb/internal/console"
	"hbnb/internal/logging"
	"hbnb/internal/repository"
	"hbnb/internal/repository/file"
	"hbnb/internal/repository/sqlite"
	"hbnb/internal/storage"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hbnb: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	configPath  string
	driver      string
	path        string
	logLevel    string
	exportFmt   string
	importPath  string
	writeConfig string
	command     string
}

func parseFlags(args []string) (*options, error) {
	var opts options

	fs := flag.NewFlagSet("hbnb", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Config file path (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG dirs)")
	fs.StringVar(&opts.driver, "driver", "", "Storage driver: file or sqlite")
	fs.StringVar(&opts.path, "path", "", "Storage path (JSON file or SQLite database)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.exportFmt, "export", "", "Write all records to stdout as json or yaml and exit")
	fs.StringVar(&opts.importPath, "import", "", "Merge records from a .json or .yaml file into storage and exit")
	fs.StringVar(&opts.writeConfig, "write-config", "", "Write the effective configuration to a file and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.command = strings.Join(fs.Args(), " ")
	return &opts, nil
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(opts *options) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if opts.configPath != "" {
		cfg, path, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	if opts.driver != "" {
		cfg.Storage.Driver = config.Driver(opts.driver)
		if opts.path == "" {
			cfg.Storage.Path = cfg.Storage.Driver.DefaultPath()
		}
	}
	if opts.path != "" {
		cfg.Storage.Path = opts.path
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func openBackend(cfg config.StorageConfig) (repository.Backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	case config.DriverFile:
		return file.New(cfg.Path), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if opts.writeConfig != "" {
		return cfg.Save(opts.writeConfig)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfgPath != "" {
		logger.Debug("config loaded", zap.String("path", cfgPath))
	}
	logger.Debug(cfg.Summary())

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx := context.Background()
	engine := storage.New(backend, storage.WithLogger(logger))
	if err := engine.ReloadContext(ctx); err != nil {
		return err
	}

	switch {
	case opts.exportFmt != "":
		return exportRecords(engine, opts.exportFmt, stdout)
	case opts.importPath != "":
		return importRecords(ctx, engine, opts.importPath, logger)
	}

	prompt := cfg.Console.Prompt
	if !interactive(stdin) {
		prompt = ""
	}
	shell := console.New(engine, stdout,
		console.WithPrompt(prompt),
		console.WithLogger(logger))

	if opts.command != "" {
		shell.Exec(opts.command)
		return nil
	}
	return shell.Run(stdin)
}

func exportRecords(engine *storage.Engine, format string, w io.Writer) error {
	c, ok := codec.ForFormat(format)
	if !ok {
		return fmt.Errorf("unknown export format %q", format)
	}
	return c.Export(engine.Snapshot(), w)
}

func importRecords(ctx context.Context, engine *storage.Engine, path string, logger *zap.Logger) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	c, ok := codec.ForFormat(format)
	if !ok {
		return fmt.Errorf("cannot import %s: unknown format %q", path, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import: %w", err)
	}
	defer f.Close()

	doc, err := c.Parse(f)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if err := engine.Restore(doc); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if err := engine.SaveContext(ctx); err != nil {
		return err
	}

	logger.Info("records imported",
		zap.String("source", path),
		zap.Int("records", len(doc)))
	return nil
}

// interactive reports whether in is a terminal
func interactive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
