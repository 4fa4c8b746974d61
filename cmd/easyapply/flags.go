package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// errHelp is returned when -h/--help was given.
var errHelp = flag.ErrHelp

// commonFlags holds flags shared across commands.
type commonFlags struct {
	quiet   bool
	verbose bool
}

// buildFlags holds flags of the build command.
type buildFlags struct {
	common commonFlags
	output string
	pdf    bool
	debug  bool
	watch  bool
}

// doctorFlags holds flags of the doctor command.
type doctorFlags struct {
	json bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Only log errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log debug details")
}

// parseBuildFlags parses build arguments and returns the project directory.
func parseBuildFlags(args []string) (*buildFlags, string, error) {
	f := &buildFlags{}
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "Output directory (default: project directory)")
	fs.BoolVar(&f.pdf, "pdf", false, "Render PDF instead of HTML")
	fs.BoolVar(&f.debug, "debug", false, "Keep the HTML given to the browser beside each PDF")
	fs.BoolVarP(&f.watch, "watch", "w", false, "Rebuild on changes to the config or the theme")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, "", errHelp
		}
		return nil, "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, "", fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	if f.debug && !f.pdf {
		return nil, "", fmt.Errorf("%w: --debug requires --pdf", ErrUsage)
	}

	rest := fs.Args()
	switch len(rest) {
	case 0:
		return f, ".", nil
	case 1:
		return f, rest[0], nil
	default:
		return nil, "", fmt.Errorf("%w: expected at most one project directory, got %d", ErrUsage, len(rest))
	}
}

// parseDoctorFlags parses doctor arguments.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&f.json, "json", false, "Print results as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errHelp
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: doctor takes no arguments", ErrUsage)
	}
	return f, nil
}
