package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/fsq/internal/catalog"
	"github.com/roach88/fsq/internal/config"
	"github.com/roach88/fsq/internal/querydoc"
	"github.com/roach88/fsq/pkg/flexsearch"
)

// typeNames resolves document type references through the catalog,
// falling back to the naming convention for unregistered types.
type typeNames struct {
	catalog    *catalog.Catalog
	convention flexsearch.ConventionResolver
}

func (n typeNames) Lookup(ctx context.Context, typeName string) (string, error) {
	code, err := n.catalog.Lookup(ctx, typeName)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return "", err
	}
	table := n.convention.TableName(typeName)
	slog.Debug("type not in catalog, using convention", "type", typeName, "table", table)
	return table, nil
}

// session is the state a document command works with.
type session struct {
	cfg     *config.Config
	catalog *catalog.Catalog
}

func openSession(cfg *config.Config) (*session, error) {
	slog.Debug("opening catalog", "path", cfg.Catalog)
	cat, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	return &session{cfg: cfg, catalog: cat}, nil
}

func (s *session) Close() {
	if err := s.catalog.Close(); err != nil {
		slog.Error("error closing catalog", "error", err)
	}
}

// compile loads path and compiles every query in it.
// On failure the returned code says which stage failed.
func (s *session) compile(ctx context.Context, path string, opts ...flexsearch.Option) ([]querydoc.Compiled, string, error) {
	f, err := querydoc.Load(path)
	if err != nil {
		return nil, ErrCodeLoad, err
	}
	slog.Debug("documents loaded", "file", path, "queries", len(f.Queries))

	names := typeNames{catalog: s.catalog, convention: s.cfg.Convention()}
	compiled, err := querydoc.CompileAll(ctx, f, names, opts...)
	if err != nil {
		return nil, ErrCodeCompile, err
	}
	return compiled, "", nil
}
