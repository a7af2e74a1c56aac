package main

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/tabscope/internal/dragdrop"
	"github.com/nikbrunner/tabscope/internal/grouping"
	"github.com/nikbrunner/tabscope/internal/logging"
	"github.com/nikbrunner/tabscope/internal/profile"
	"github.com/nikbrunner/tabscope/internal/storage"
	"github.com/nikbrunner/tabscope/internal/tabindex"
	"github.com/nikbrunner/tabscope/internal/tabstore"
	"github.com/nikbrunner/tabscope/internal/tagging"
	"go.uber.org/zap"
)

// App holds every component for the lifetime of one command.
type App struct {
	kv          storage.KV
	logger      *zap.Logger
	profiles    *profile.Store
	index       *tabindex.Index
	tabs        *tabstore.Store
	groups      *grouping.Engine
	migrator    *profile.Migrator
	coordinator *dragdrop.Coordinator
}

// NewApp wires all components on top of kv.
func NewApp(kv storage.KV, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	profiles, err := profile.Open(kv, logger.Named("profiles"))
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}

	index, err := tabindex.Open(kv)
	if err != nil {
		return nil, fmt.Errorf("open tab index: %w", err)
	}

	initial, err := tabstore.Load(kv)
	if err != nil {
		return nil, fmt.Errorf("load tabs: %w", err)
	}

	tabs := tabstore.New(tabstore.Params{
		Tagger: tagging.Middleware(profiles),
		Middleware: []tabstore.Middleware{
			tabstore.Log(logger.Named("tabs")),
			tabstore.Snapshot(kv),
		},
		Initial: initial,
	})

	groups, err := grouping.Open(kv)
	if err != nil {
		return nil, fmt.Errorf("open groups: %w", err)
	}

	return &App{
		kv:       kv,
		logger:   logger,
		profiles: profiles,
		index:    index,
		tabs:     tabs,
		groups:   groups,
		migrator: profile.NewMigrator(profile.MigratorParams{
			Tabs:   tabs,
			Index:  index,
			Logger: logger.Named("migrate"),
		}),
		coordinator: dragdrop.NewCoordinator(groups, logger.Named("dragdrop")),
	}, nil
}

// Sync brings the derived state in line with the tab list: the index is
// rebuilt from context tags and groups lose closed tabs.
func (a *App) Sync() error {
	current := a.tabs.Tabs()
	ids := make([]string, len(current))
	for i, t := range current {
		ids[i] = t.ID
	}

	var errs []error
	if err := a.index.Rebuild(current); err != nil {
		errs = append(errs, fmt.Errorf("rebuild tab index: %w", err))
	}
	if err := a.groups.Prune(ids); err != nil {
		errs = append(errs, fmt.Errorf("prune groups: %w", err))
	}
	return errors.Join(errs...)
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.kv.Close()
}
