package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	"github.com/fwojciec/confscan"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Searcher  confscan.Searcher
	Reports   confscan.ReportService
	NewWriter func(path string) confscan.ReportWriter

	// Interactive is set when stderr is a terminal; progress is then drawn
	// on a single live line.
	Interactive bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"YAML configuration file" placeholder:"FILE"`
	DB      string          `name:"db" env:"CONFSCAN_DB" default:"${default_db}" help:"Report history database"`
	Verbose bool            `short:"v" help:"Log debug output to stderr"`

	Scan    ScanCmd    `cmd:"" help:"Scan a directory tree for confidential documents"`
	Reports ReportsCmd `cmd:"" help:"List saved reports"`
	Show    ShowCmd    `cmd:"" help:"Print the confidential files of a saved report"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a saved report"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Root   string        `arg:"" help:"Directory to scan" type:"path"`
	Output string        `short:"o" help:"Export confidential paths to FILE (.json exports the whole report)" placeholder:"FILE" type:"path"`
	Save   bool          `short:"s" help:"Save the report to history"`
	Marker string        `env:"CONFSCAN_MARKER" default:"${default_marker}" help:"Marker identifying confidential documents"`
	Pace   time.Duration `help:"Spread the completion of each phase over ten paced steps"`
}

// ReportsCmd is the "reports" subcommand.
type ReportsCmd struct {
	Root  string `help:"Only list reports of this directory"`
	Limit int    `short:"n" default:"20" help:"Maximum number of reports"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID      string `arg:"" help:"Report ID"`
	Details bool   `short:"d" help:"Print report metadata and phase counters before the paths"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Report ID"`
	Force bool   `help:"Confirm deletion"`
}
