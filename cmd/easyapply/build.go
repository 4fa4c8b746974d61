package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	easyapply "github.com/alnah/go-easyapply"
	"github.com/alnah/go-easyapply/internal/config"
	"github.com/alnah/go-easyapply/internal/hints"
	"github.com/alnah/go-easyapply/internal/theme"
)

// runBuild executes the build command, once or in watch mode.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, dir, err := parseBuildFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printBuildUsage(env.Stdout)
			return nil
		}
		return err
	}

	if err := config.LoadEnv(dir); err != nil {
		return err
	}
	warnUnknownEnvVars(env)

	level, err := resolveLogLevel(flags.common.verbose, flags.common.quiet, env.getenv(envLogLevel))
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, level)

	opts := []easyapply.Option{easyapply.WithLogger(logger)}
	if d := env.getenv(envCacheDir); d != "" {
		opts = append(opts, easyapply.WithCacheDir(d))
	}
	builder := easyapply.NewBuilder(opts...)
	defer func() {
		if err := builder.Close(); err != nil {
			logger.Warn("closing browser", "error", err)
		}
	}()

	buildOpts := easyapply.BuildOptions{
		ProjectDir: dir,
		OutputDir:  flags.output,
		PDF:        flags.pdf,
		Debug:      flags.debug,
	}

	if flags.watch {
		logger.Info("watching for changes", "dir", dir)
		return builder.Watch(ctx, buildOpts)
	}

	res, err := builder.Build(ctx, buildOpts)
	if err != nil {
		return &cmdError{err: err, hint: hintFor(err, dir)}
	}
	if !flags.common.quiet {
		for _, a := range res.Artifacts {
			fmt.Fprintln(env.Stdout, a.Path)
		}
	}
	return nil
}

// hintFor suggests a fix for common build failures.
func hintFor(err error, dir string) string {
	switch {
	case errors.Is(err, easyapply.ErrConfigNotFound):
		abs, aerr := filepath.Abs(dir)
		if aerr != nil {
			abs = dir
		}
		return hints.ForConfigNotFound(abs)
	case errors.Is(err, easyapply.ErrInvalidConfig):
		return hints.ForInvalidConfig()
	case errors.Is(err, easyapply.ErrThemeNotFound):
		if cfg, cerr := config.Load(dir); cerr == nil {
			return hints.ForThemeNotFound(cfg.ThemeName)
		}
	case errors.Is(err, easyapply.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(availableTemplates(dir))
	case errors.Is(err, easyapply.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, easyapply.ErrOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// availableTemplates lists the top-level templates of the project's theme.
func availableTemplates(dir string) []string {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil
	}
	root, ok := theme.Find(dir, cfg.ThemeName)
	if !ok {
		return nil
	}
	entries, err := os.ReadDir(filepath.Join(root, theme.TemplatesDir))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
