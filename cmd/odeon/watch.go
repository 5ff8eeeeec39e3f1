package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/llehouerou/odeon/internal/browser"
	"github.com/llehouerou/odeon/internal/errmsg"
	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/render"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print stale node ids while the library changes",
		Long: `Watch the library database and print the ids of the nodes whose
children changed, one batch per burst of changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			debounce := opts.cfg.WatchDebounce()
			if window <= 0 {
				window = debounce
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				render.T().S().Muted.Render("watching"), a.repo.Path())

			if err := watch(ctx, a, debounce, window, cmd.OutOrStdout()); err != nil {
				return errmsg.Error(errmsg.OpLibraryWatch, err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&window, "window", 0, "coalescing window for stale ids (default: watch debounce)")
	return cmd
}

// watch reloads the library on file changes and prints the stale ids
// coalesced over window until ctx is done.
func watch(ctx context.Context, a *app, debounce, window time.Duration, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var outMu sync.Mutex
	coalescer := browser.NewCoalescer(window, func(ids []mediaid.MediaID) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintln(out, staleLine(ids, time.Now()))
	})
	sub := a.tree.Subscribe()
	// Subscribed before the watcher starts so no reload goes unseen.
	changes := a.repo.Subscribe()

	var wg sync.WaitGroup
	wg.Go(func() {
		if err := a.tree.Serve(ctx, changes); err != nil {
			log.Warn().Err(err).Msg("Tree stopped")
		}
	})
	wg.Go(func() { coalescer.Consume(ctx, sub) })

	err := a.repo.Watch(ctx, debounce)
	cancel()
	wg.Wait()
	return err
}

func staleLine(ids []mediaid.MediaID, now time.Time) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	st := render.T().S()
	return st.Subtle.Render(now.Format(time.TimeOnly)) + " " + strings.Join(parts, " ")
}
