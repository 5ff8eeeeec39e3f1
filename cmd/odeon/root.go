package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/llehouerou/odeon/internal/config"
	"github.com/llehouerou/odeon/internal/errmsg"
	"github.com/llehouerou/odeon/internal/icons"
	"github.com/llehouerou/odeon/internal/render"
)

// rootOptions holds the persistent flags and the configuration they resolve to.
type rootOptions struct {
	configPath  string
	libraryPath string
	statePath   string
	debug       bool
	width       int

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "odeon",
		Short:         "Browse and play a music library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: user config, then ./config.toml)")
	flags.StringVar(&opts.libraryPath, "library", "", "library database file")
	flags.StringVar(&opts.statePath, "state", "", "state database file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.IntVarP(&opts.width, "width", "w", render.DefaultWidth, "output width in cells")

	cmd.AddCommand(
		newBrowseCmd(opts),
		newItemCmd(opts),
		newSearchCmd(opts),
		newShuffleCmd(opts),
		newPlayCmd(opts),
		newResumeCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

// init loads the configuration, applies flag overrides and sets up logging.
func (o *rootOptions) init(logOut io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return errmsg.Error(errmsg.OpConfigLoad, err)
	}

	if o.libraryPath != "" {
		cfg.LibraryDB = o.libraryPath
	}
	if o.statePath != "" {
		cfg.StateDB = o.statePath
	}
	o.cfg = cfg
	icons.Init(cfg.Icons)

	level := cfg.Level()
	if o.debug {
		level = zerolog.DebugLevel
	}
	setupLogging(logOut, level)
	return nil
}

func setupLogging(out io.Writer, level zerolog.Level) {
	if out == nil {
		out = os.Stderr
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
}
