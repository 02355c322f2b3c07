package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/rtikit/internal/fom"
)

// modulePaths returns paths, or the configured fom_modules when none are given.
func modulePaths(opts *RootOptions, paths []string) []string {
	if len(paths) == 0 {
		return opts.config().FOMModules
	}
	return paths
}

// requireModulePaths is modulePaths for commands that need at least one module.
func requireModulePaths(opts *RootOptions, f *OutputFormatter, paths []string) ([]string, error) {
	paths = modulePaths(opts, paths)
	if len(paths) == 0 {
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, "no FOM modules given and fom_modules is not configured", nil)
	}
	return paths, nil
}

// loadModules reads FOM modules, reporting failures through f.
func loadModules(ctx context.Context, opts *RootOptions, f *OutputFormatter, paths []string) ([]*fom.Declarations, error) {
	modules, err := fom.NewLoader(opts.logger()).LoadAll(ctx, paths...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, "module file not found", err)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeLoadFailed, "cannot load module", err)
	}
	for i, m := range modules {
		f.VerboseLog("Loaded %s: module %q, %d datatype(s)", paths[i], m.Module, m.Len())
	}
	return modules, nil
}

// loadModel reads and resolves FOM modules.
func loadModel(ctx context.Context, opts *RootOptions, f *OutputFormatter, paths []string) (*fom.ObjectModel, error) {
	modules, err := loadModules(ctx, opts, f, paths)
	if err != nil {
		return nil, err
	}
	om, err := fom.Resolve(modules...)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeResolveFailed, fmt.Sprintf("%d module(s) do not resolve", len(modules)), err)
	}
	return om, nil
}
