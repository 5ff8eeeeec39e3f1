package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/odeon/internal/errmsg"
	"github.com/llehouerou/odeon/internal/icons"
	"github.com/llehouerou/odeon/internal/playback"
	"github.com/llehouerou/odeon/internal/queue"
	"github.com/llehouerou/odeon/internal/render"
	"github.com/llehouerou/odeon/internal/session"
)

// transportOptions are the navigation steps applied after a session starts.
type transportOptions struct {
	skip     int
	repeat   string
	position time.Duration
	trace    bool

	mode playback.RepeatMode
}

func (t *transportOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&t.skip, "skip", 0, "skip forward n tracks, backward if negative")
	cmd.Flags().StringVar(&t.repeat, "repeat", "", "repeat mode: off, all or one")
	cmd.Flags().DurationVar(&t.position, "position", 0, "elapsed time in the current track before skipping")
	cmd.Flags().BoolVar(&t.trace, "trace", false, "print the queue after each step")
}

func (t *transportOptions) validate() error {
	if t.position < 0 {
		return errors.New("position must not be negative")
	}
	if t.repeat == "" {
		return nil
	}
	mode, ok := playback.ParseRepeatMode(t.repeat)
	if !ok {
		return fmt.Errorf("unknown repeat mode %q", t.repeat)
	}
	t.mode = mode
	return nil
}

func (t *transportOptions) apply(out io.Writer, c *session.Controller) {
	if t.trace {
		sub := c.SubscribeQueue()
		defer printQueueChanges(out, sub)
	}
	if t.repeat != "" {
		c.SetRepeatMode(t.mode)
	}
	if t.position > 0 {
		c.SetPosition(t.position)
	}
	for range t.skip {
		c.SkipToNext()
	}
	for range -t.skip {
		c.SkipToPrevious()
	}
}

// printQueueChanges prints the queue changes buffered in sub.
func printQueueChanges(out io.Writer, sub *queue.Subscription) {
	st := render.T().S()
	for {
		select {
		case e := <-sub.Changed:
			active := "none"
			if item, ok := lo.Find(e.Items, func(it queue.Item) bool { return it.ID == e.ActiveID }); ok {
				active = render.Sanitize(item.Track.Title)
			}
			fmt.Fprintf(out, "%s %s, active %s\n",
				st.Muted.Render("queue"), render.Count(len(e.Items), "item"), active)
		default:
			return
		}
	}
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var (
		shuffled  bool
		seed      int64
		transport transportOptions
	)

	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Start a session and print its queue",
		Long: `Play a media id. A track plays its siblings starting from it, a
browsable node plays its tracks from the first one. The session is saved
and can be picked up again with resume.

Examples:
  odeon play albums/40
  odeon play "albums/40|101" --shuffle --seed 7
  odeon play tracks/all --skip 3 --repeat all
  odeon resume --position 2s --skip -1 --trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := transport.validate(); err != nil {
				return errmsg.Error(errmsg.OpPlaybackMode, err)
			}
			if !cmd.Flags().Changed("seed") {
				seed = rand.Int64()
			}

			p, err := opts.openPlayer(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			s, err := p.controller.PlayFromMediaID(cmd.Context(), id, shuffled, seed)
			if err != nil {
				return errmsg.Error(errmsg.OpSessionPrepare, err)
			}
			transport.apply(cmd.OutOrStdout(), p.controller)

			printSession(cmd.OutOrStdout(), p, s, opts.width)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&shuffled, "shuffle", "s", false, "shuffle the queue")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed (random if unset)")
	transport.addFlags(cmd)
	return cmd
}

func newResumeCmd(opts *rootOptions) *cobra.Command {
	var transport transportOptions

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Restore the last played session",
		Long: `Rebuild the last played session with the same order, track and
position, and print its queue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := transport.validate(); err != nil {
				return errmsg.Error(errmsg.OpPlaybackMode, err)
			}
			p, err := opts.openPlayer(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			saved, err := p.store.LastPlayed(cmd.Context())
			if err != nil {
				return errmsg.Error(errmsg.OpSessionRestore, err)
			}

			s, err := p.controller.Restore(cmd.Context())
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), render.T().S().Muted.Render("No saved session"))
				return nil
			}
			if err != nil {
				return errmsg.Error(errmsg.OpSessionRestore, err)
			}
			transport.apply(cmd.OutOrStdout(), p.controller)

			out := cmd.OutOrStdout()
			if saved != nil {
				fmt.Fprintf(out, "%s\n", render.T().S().Muted.Render("saved "+render.Since(saved.UpdatedAt, time.Now())))
			}
			printSession(out, p, s, opts.width)
			return nil
		},
	}

	transport.addFlags(cmd)
	return cmd
}

func printSession(out io.Writer, p *player, s *session.Session, width int) {
	st := render.T().S()
	c := p.controller
	h := c.Player()

	mode := "in order"
	if h.Shuffle() {
		mode = strings.TrimSpace(fmt.Sprintf("%s shuffled, seed %d", icons.Shuffle(), s.Seed))
	}
	repeat := strings.TrimSpace(icons.Repeat(h.RepeatMode()) + " repeat " + h.RepeatMode().String())
	fmt.Fprintln(out, st.Title.Render(s.Parent.String()))
	fmt.Fprintf(out, "%s  %s  %s  %s\n",
		st.Muted.Render(render.Count(s.Timeline.WindowCount(), "track")),
		st.Muted.Render(mode),
		st.Muted.Render(repeat),
		st.Subtle.Render(s.ID.String()),
	)
	if t := h.CurrentTrack(); t != nil {
		fmt.Fprintf(out, "%s %s at %s\n",
			st.Active.Render("now"), render.Sanitize(t.Title), render.FormatDuration(h.Position()))
	}
	fmt.Fprintln(out, render.Queue(c.Queue(), c.ActiveQueueItemID(), width))
	fmt.Fprintf(out, "%s %s\n", st.Muted.Render("actions:"), c.SupportedActions())
}
