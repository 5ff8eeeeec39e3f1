package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/odeon/internal/browser"
	"github.com/llehouerou/odeon/internal/errmsg"
	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/playback"
	"github.com/llehouerou/odeon/internal/queue"
	"github.com/llehouerou/odeon/internal/session"
	"github.com/llehouerou/odeon/internal/state"
)

// app is the library side of the command line: repository and tree.
type app struct {
	repo *library.SQLiteRepository
	tree *browser.Tree
}

func (o *rootOptions) openLibrary(ctx context.Context) (*app, error) {
	repo, err := library.OpenSQLite(o.cfg.LibraryDB)
	if err != nil {
		return nil, errmsg.Error(errmsg.OpLibraryOpen, err)
	}
	if err := repo.Reload(ctx); err != nil {
		repo.Close()
		return nil, errmsg.Error(errmsg.OpLibraryLoad, err)
	}

	tree := browser.New(repo,
		browser.WithMostRatedLimit(o.cfg.Browse.MostRatedLimit),
		browser.WithRecentlyAddedLimit(o.cfg.Browse.RecentlyAddedLimit),
	)
	log.Debug().Str("path", repo.Path()).Msg("Library opened")
	return &app{repo: repo, tree: tree}, nil
}

func (a *app) Close() error {
	return a.repo.Close()
}

// player is a playback session over the library with persisted state.
type player struct {
	*app
	store      *state.Manager
	headless   *playback.Headless
	controller *session.Controller
}

func (o *rootOptions) openPlayer(ctx context.Context) (*player, error) {
	a, err := o.openLibrary(ctx)
	if err != nil {
		return nil, err
	}
	store, err := state.Open(o.cfg.StateDB)
	if err != nil {
		a.Close()
		return nil, errmsg.Error(errmsg.OpStateOpen, err)
	}

	headless := playback.NewHeadless()
	nav := queue.New(
		queue.WithWindowSize(o.cfg.Queue.WindowSize),
		queue.WithRewindThreshold(o.cfg.RewindThreshold()),
	)
	controller := session.NewController(headless, nav, session.NewPreparer(a.tree), store)

	return &player{
		app:        a,
		store:      store,
		headless:   headless,
		controller: controller,
	}, nil
}

// Close saves pending state and releases the player, the state and the library.
func (p *player) Close() error {
	p.controller.Close()
	return errors.Join(
		p.headless.Close(),
		p.store.Close(),
		p.app.Close(),
	)
}

func parseID(s string) (mediaid.MediaID, error) {
	id, err := mediaid.Parse(s)
	if err != nil {
		return mediaid.MediaID{}, errmsg.Error(errmsg.OpParseMedia, err)
	}
	return id, nil
}
