package app

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/erraggy/oasbind/document"
	"github.com/erraggy/oasbind/internal/httputil"
	"github.com/erraggy/oasbind/internal/options"
	"github.com/erraggy/oasbind/internal/pathutil"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/operation"
	"github.com/erraggy/oasbind/spec"
)

// App is a loaded API description with its operations indexed by
// operationId and by (method, path). The index is built on first use.
// An App is safe for concurrent use.
type App struct {
	resolver *spec.Resolver
	logger   spec.Logger

	once     sync.Once
	indexErr error
	byID     map[string]*operation.Operation
	byRoute  map[route]*operation.Operation
	ids      []string
}

type route struct {
	method string
	path   string
}

// New loads an App from exactly one of WithStore, WithFilePath or WithBytes.
//
// Example:
//
//	a, err := app.New(app.WithFilePath("petstore.yaml"))
//	if err != nil {
//	    return err
//	}
//	op, err := a.Op("getPetById")
func New(opts ...Option) (*App, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("app: invalid options: %w", err)
		}
	}
	if err := options.ValidateSingleInputSource(
		options.Source{Option: "WithStore", Set: cfg.store != nil},
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithBytes", Set: cfg.bytes != nil},
	); err != nil {
		return nil, fmt.Errorf("app: invalid options: %w", err)
	}
	if cfg.logger == nil {
		cfg.logger = spec.NopLogger{}
	}

	store, err := cfg.openStore()
	if err != nil {
		return nil, err
	}

	ropts := []spec.Option{spec.WithLogger(cfg.logger)}
	if cfg.maxRefDepth > 0 {
		ropts = append(ropts, spec.WithMaxRefDepth(cfg.maxRefDepth))
	}
	r, err := spec.NewResolver(store, ropts...)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &App{resolver: r, logger: cfg.logger}, nil
}

func (cfg *config) openStore() (*document.Store, error) {
	switch {
	case cfg.store != nil:
		return cfg.store, nil
	case cfg.filePath != nil:
		files := &document.FileLoader{BaseDir: filepath.Dir(*cfg.filePath)}
		doc, err := files.Load(filepath.Base(*cfg.filePath))
		if err != nil {
			return nil, fmt.Errorf("app: failed to load %s: %w", *cfg.filePath, err)
		}
		loader := cfg.loader
		if loader == nil {
			loader = files
		}
		return newStore(doc, loader)
	default:
		doc, err := document.Parse("", cfg.bytes)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		return newStore(doc, cfg.loader)
	}
}

func newStore(doc *document.Document, loader document.Loader) (*document.Store, error) {
	var sopts []document.StoreOption
	if loader != nil {
		sopts = append(sopts, document.WithLoader(loader))
	}
	store := document.NewStore(sopts...)
	if err := store.Add(doc); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return store, nil
}

// Resolver returns the App's Resolver.
func (a *App) Resolver() *spec.Resolver { return a.resolver }

// Root returns the top-level fields of the main document.
func (a *App) Root() *spec.Root { return a.resolver.Root() }

// Resolve resolves a reference against the main document.
func (a *App) Resolve(ref string) (spec.Node, error) {
	return a.resolver.Resolve(ref)
}

// Op returns the operation with the given operationId. Operations that
// declare no operationId are found under "METHOD /path".
func (a *App) Op(id string) (*operation.Operation, error) {
	if err := a.index(); err != nil {
		return nil, err
	}
	op, ok := a.byID[id]
	if !ok {
		return nil, &oaserrors.ResolutionError{Ref: id, Message: "no operation with this id"}
	}
	return op, nil
}

// OpFor returns the operation bound to method on the path template path.
func (a *App) OpFor(method, path string) (*operation.Operation, error) {
	if err := a.index(); err != nil {
		return nil, err
	}
	op, ok := a.byRoute[route{httputil.NormalizeMethod(method), path}]
	if !ok {
		return nil, &oaserrors.ResolutionError{
			Ref:     pathutil.OperationRef(path, method),
			Message: "no operation for this method and path",
		}
	}
	return op, nil
}

// Ops returns the ids of all indexed operations, sorted.
func (a *App) Ops() ([]string, error) {
	if err := a.index(); err != nil {
		return nil, err
	}
	return slices.Clone(a.ids), nil
}

func (a *App) index() error {
	a.once.Do(func() {
		a.indexErr = a.buildIndex()
	})
	return a.indexErr
}

func (a *App) buildIndex() error {
	byID := make(map[string]*operation.Operation)
	byRoute := make(map[route]*operation.Operation)
	var ids []string

	for _, path := range a.resolver.Root().Paths {
		item, err := a.resolver.ResolvePathItem(pathutil.PathRef(path))
		if err != nil {
			return fmt.Errorf("app: path %s: %w", path, err)
		}
		for _, method := range item.Methods() {
			op, err := operation.New(a.resolver, item, method)
			if err != nil {
				return fmt.Errorf("app: %w", err)
			}
			byRoute[route{method, path}] = op

			id := op.ID()
			if prev, dup := byID[id]; dup {
				// A template shared by several path items declares its
				// operationId once for all of them; the first path wins.
				a.logger.Warn("duplicate operationId",
					"operationId", id,
					"kept", prev.Method()+" "+prev.Path(),
					"ignored", op.Method()+" "+op.Path())
				continue
			}
			byID[id] = op
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	a.byID, a.byRoute, a.ids = byID, byRoute, ids
	a.logger.Debug("indexed operations", "count", len(ids), "paths", len(a.resolver.Root().Paths))
	return nil
}
