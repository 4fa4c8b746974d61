package main

import (
	"context"
	"errors"
	"fmt"
)

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "build":
		ctx, stop := notifyContext(context.Background())
		defer stop()
		return report(env, runBuild(ctx, rest, env))
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "easyapply %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return printHelp(env.Stdout, rest)
	default:
		fmt.Fprintf(env.Stderr, "unknown command %q\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// report prints err with its hint and maps it to an exit code.
func report(env *Environment, err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(env.Stderr, "interrupted")
		return ExitGeneral
	}

	var ce *cmdError
	if errors.As(err, &ce) {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", ce.err, ce.hint)
		return exitCodeFor(ce.err)
	}
	fmt.Fprintf(env.Stderr, "error: %v\n", err)
	return exitCodeFor(err)
}

// cmdError carries a hint computed where the failure context is known.
type cmdError struct {
	err  error
	hint string
}

func (e *cmdError) Error() string { return e.err.Error() + e.hint }
func (e *cmdError) Unwrap() error { return e.err }
