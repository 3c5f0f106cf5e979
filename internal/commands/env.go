package commands

import (
	"fmt"

	"github.com/ebb-dev/ebb/internal/bankfeed"
	"github.com/ebb-dev/ebb/internal/config"
	"github.com/ebb-dev/ebb/internal/engine"
	"github.com/ebb-dev/ebb/internal/schedule"
	"github.com/ebb-dev/ebb/internal/store"
)

// env holds everything a subcommand needs once the configuration is
// loaded.
type env struct {
	cfg    *config.Config
	store  *store.Store
	engine *engine.Engine
}

// openEnv loads the configuration, opens the store, and wires the
// engine. The caller must close the returned env.
func openEnv(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	var feed bankfeed.Feed
	switch {
	case cfg.BankFeed.File != "":
		feed = bankfeed.FileFeed{Path: cfg.BankFeed.File}
	case cfg.BankFeed.URL != "":
		feed = bankfeed.NewHTTPFeed(cfg.BankFeed.URL, cfg.FeedTimeout())
	default:
		_ = st.Close()
		return nil, fmt.Errorf("config %s: bank_feed needs a url or a file", configPath)
	}

	if cfg.ScheduleStore.URL == "" {
		_ = st.Close()
		return nil, fmt.Errorf("config %s: schedule_store.url is required", configPath)
	}
	remote := schedule.NewClient(cfg.ScheduleStore.URL, cfg.ScheduleTimeout())

	return &env{
		cfg:    cfg,
		store:  st,
		engine: engine.New(st, feed, remote, cfg),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}
