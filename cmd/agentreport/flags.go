package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every flag of the render command.
type cliFlags struct {
	config        string
	output        string
	workers       int
	timeout       time.Duration
	imageEndpoint string
	searchTimeout time.Duration
	style         string
	noStyle       bool
	quiet         bool
	verbose       bool
	version       bool
}

// newFlagSet registers all flags on a fresh FlagSet bound to f.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("agentreport", flag.ContinueOnError)

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to input)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-report render timeout (0 = default)")
	fs.StringVar(&f.imageEndpoint, "image-endpoint", "", "image-search endpoint URL (empty = disabled)")
	fs.DurationVar(&f.searchTimeout, "search-timeout", 0, "per-image search timeout (0 = default)")
	fs.StringVar(&f.style, "style", "", "stylesheet name or .css path (default: built-in)")
	fs.BoolVar(&f.noStyle, "no-style", false, "emit unstyled HTML")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.version, "version", false, "show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: agentreport [flags] <file-or-directory>\n\n")
		fmt.Fprintf(fs.Output(), "Renders agent report markdown (.md) or task results (.json) to HTML.\n\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses os.Args style input and returns the flags plus the
// positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f)
	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	if f.quiet && f.verbose {
		return nil, nil, fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return f, fs.Args(), nil
}
