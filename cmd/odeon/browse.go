package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/odeon/internal/errmsg"
	"github.com/llehouerou/odeon/internal/mediaid"
	"github.com/llehouerou/odeon/internal/render"
	"github.com/llehouerou/odeon/internal/search"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [id]",
		Short: "List the children of a node",
		Long: `List the children of a media id, root by default.

Examples:
  odeon browse
  odeon browse albums
  odeon browse tracks/most_rated`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := mediaid.Root
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}

			a, err := opts.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			nodes, err := a.tree.Children(cmd.Context(), id)
			if err != nil {
				return errmsg.Error(errmsg.OpBrowse, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Nodes(nodes, opts.width))
			return nil
		},
	}
}

func newItemCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "item <id>",
		Short: "Show a single node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := opts.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			node, err := a.tree.Item(cmd.Context(), id)
			if err != nil {
				return errmsg.Error(errmsg.OpItemLoad, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Node(node))
			return nil
		},
	}
}

// searchOptions are the structured fields of a search request. The most
// specific field given sets the focus.
type searchOptions struct {
	artist string
	album  string
	song   string
}

func (s searchOptions) query(text string) search.Query {
	focus := search.FocusNone
	switch {
	case s.song != "":
		focus = search.FocusSong
	case s.album != "":
		focus = search.FocusAlbum
	case s.artist != "":
		focus = search.FocusArtist
	}
	return search.Parse(text, focus, search.Fields{
		Artist: s.artist,
		Album:  s.album,
		Title:  s.song,
	})
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var so searchOptions

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search the library",
		Long: `Search artists, albums and songs.

Free text matches names by substring, best match first. The --artist,
--album and --song flags make a focused request on exact names.

Examples:
  odeon search metal
  odeon search --artist "Iron Maiden"
  odeon search --artist Metallica --song One`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := so.query(strings.Join(args, " "))

			a, err := opts.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			nodes, err := a.tree.Search(cmd.Context(), q)
			if err != nil {
				return errmsg.Error(errmsg.OpSearch, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Nodes(nodes, opts.width))
			return nil
		},
	}

	cmd.Flags().StringVar(&so.artist, "artist", "", "artist name")
	cmd.Flags().StringVar(&so.album, "album", "", "album title")
	cmd.Flags().StringVar(&so.song, "song", "", "song title")
	return cmd
}
