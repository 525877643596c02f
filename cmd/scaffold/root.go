// Package scaffold implements the scaffold command line interface
package scaffold

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/scaffold/internal/version"
	"github.com/arthur-debert/scaffold/pkg/cobrax/topics"
	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity     int
	dryRun        bool
	noInteraction bool
	projectRoot   string
	format        string
	packages      []string
	set           []string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "scaffold",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.BoolVar(&opts.noInteraction, "no-interaction", false, MsgFlagNoInteraction)
	flags.StringVarP(&opts.projectRoot, "project", "C", "", MsgFlagProject)
	flags.StringVar(&opts.format, "format", "", MsgFlagFormat)
	flags.StringArrayVarP(&opts.packages, "package", "p", nil, MsgFlagPackage)
	flags.StringArrayVar(&opts.set, "set", nil, MsgFlagSet)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newApplyCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	source, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		tm, err := topics.InitializeWithOptions(rootCmd, source, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
		if err == nil {
			rootCmd.AddCommand(newTopicsCmd(tm))
		}
	}

	return rootCmd
}
