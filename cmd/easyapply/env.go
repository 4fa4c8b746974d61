package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
	}
}

// Environment variables read by the CLI.
const (
	envLogLevel = "EASYAPPLY_LOG_LEVEL" // debug, info, warn, error
	envCacheDir = "EASYAPPLY_CACHE_DIR" // asset cache root
)

// knownEnvVars lists valid EASYAPPLY_* environment variables.
var knownEnvVars = map[string]bool{
	envLogLevel: true,
	envCacheDir: true,
}

// warnUnknownEnvVars warns about unrecognized EASYAPPLY_* variables, which
// are most likely typos.
func warnUnknownEnvVars(env *Environment) {
	if env.Environ == nil {
		return
	}
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, "EASYAPPLY_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

func (e *Environment) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}
