package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: easyapply <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render the documents of a project")
	fmt.Fprintln(w, "  doctor     Check Chrome, SVG optimizers and the cache")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'easyapply help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: easyapply build [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every document declared in dir/application.yaml (default: .).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>    Output directory (default: project directory)")
	fmt.Fprintln(w, "      --pdf             Render PDF with headless Chrome")
	fmt.Fprintln(w, "      --debug           Keep <doc>.pdf.html beside each PDF")
	fmt.Fprintln(w, "  -w, --watch           Rebuild on changes until interrupted")
	fmt.Fprintln(w, "  -q, --quiet           Only log errors")
	fmt.Fprintln(w, "  -v, --verbose         Log debug details")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  EASYAPPLY_LOG_LEVEL   debug, info, warn or error")
	fmt.Fprintln(w, "  EASYAPPLY_CACHE_DIR   Asset cache directory")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN       Chrome binary to use")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1      Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Variables in dir/.env are loaded first; the process environment wins.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: easyapply doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that PDF rendering and SVG optimization can run.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json            Print results as JSON")
}

// printHelp prints help for a command, or the main usage.
func printHelp(w io.Writer, args []string) int {
	if len(args) == 0 {
		printUsage(w)
		return ExitSuccess
	}
	switch args[0] {
	case "build":
		printBuildUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "version", "help":
		printUsage(w)
	default:
		fmt.Fprintf(w, "unknown command %q\n\n", args[0])
		printUsage(w)
		return ExitUsage
	}
	return ExitSuccess
}
