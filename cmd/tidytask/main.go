package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"tidytask/internal/config"
	"tidytask/internal/model"
	"tidytask/internal/prefs"
	"tidytask/internal/reconcile"
	"tidytask/internal/settle"
	"tidytask/internal/storage"
	"tidytask/internal/tasks"
	"tidytask/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tidytask: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg = config.FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	seed, err := store.LoadTasks(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load tasks: %w", err)
	}
	saved, err := store.LoadPrefs(ctx)
	if err != nil {
		saved = model.DefaultPreferences()
	}

	repo := tasks.NewRepository(seed)
	rows := update.NewRowList()
	syncer := reconcile.NewSynchronizer(repo, store, rows, saved.Sort)
	ctl := prefs.NewController(saved, store,
		prefs.WithSortEffect(syncer.SetSortMode),
	)

	engine := settle.NewEngine(16)
	engine.Start()
	defer engine.Stop()

	m := update.NewModel(update.Deps{
		Repo:        repo,
		Rows:        rows,
		Syncer:      syncer,
		Prefs:       ctl,
		Settle:      engine,
		SettleDelay: cfg.SettleDelay(),
	})

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return storage.NewFileStore(path)
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		return storage.OpenSQLite(path)
	}
}
