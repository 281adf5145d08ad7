package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/fwojciec/confscan"
	"github.com/fwojciec/confscan/billy"
	"github.com/fwojciec/confscan/fs"
	"github.com/fwojciec/confscan/ooxml"
	"github.com/fwojciec/confscan/scan"
	confslog "github.com/fwojciec/confscan/slog"
	"github.com/fwojciec/confscan/sqlite"
)

// exitInterrupted is the conventional exit status after SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, context.Canceled) {
		os.Exit(exitInterrupted)
	} else if err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Configuration file read before flags are resolved.
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Filesystem scanned by the scan command. Defaults to the OS filesystem.
	FS confscan.FileSystem
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: "~/.confscan.yaml",
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments. Errors are reported on
// stderr before they are returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:         ctx,
		Stdout:      stdout,
		Stderr:      stderr,
		Interactive: isTerminal(stderr),
	}

	var configPaths []string
	if m.ConfigPath != "" {
		configPaths = append(configPaths, m.ConfigPath)
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("confscan"),
		kong.Description("Find documents carrying a confidentiality marker."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAML, configPaths...),
		kong.Vars{
			"default_db":     m.DBPath,
			"default_marker": confscan.DefaultMarker,
		},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified. Run 'confscan --help' to see available commands")
		return confscan.Errorf(confscan.EINVALID, "no command specified")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if kongCtx.Selected().Name != "scan" || cli.Scan.Save {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "error: failed to open database at %q: %v\n", cli.DB, err)
			fmt.Fprintln(stderr, "Hint: Set CONFSCAN_DB or --db to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Reports = confslog.NewLoggingReportService(sqlite.NewReportService(m.DB), logger)
	}

	fsys := m.FS
	if fsys == nil {
		fsys = billy.NewOSFS()
	}
	deps.Searcher = &scan.Searcher{
		FS:     fsys,
		Reader: confslog.NewLoggingReader(ooxml.NewReader(fsys), logger),
		Logger: logger,
		Marker: cli.Scan.Marker,
		Pacing: cli.Scan.Pace,
	}
	deps.NewWriter = func(path string) confscan.ReportWriter {
		return fs.NewReportWriter(path)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "confscan.db"
	}
	dir := filepath.Join(home, ".confscan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "confscan.db")
}

// isTerminal reports whether w is a terminal that can redraw a live line.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
