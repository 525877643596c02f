package scaffold

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/scaffold/pkg/config"
	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/paths"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			locations, err := paths.New(opts.projectRoot, nil)
			if err != nil {
				return err
			}
			target := filepath.Join(locations.ProjectRoot(), config.FileName)
			if _, err := os.Stat(target); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgConfigExists, target)
			} else if !stderrors.Is(err, fs.ErrNotExist) {
				return errors.Wrap(err, errors.ErrFileAccess, "cannot check configuration file").
					WithDetail("path", target)
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "failed to write configuration file").
					WithDetail("path", target)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}
