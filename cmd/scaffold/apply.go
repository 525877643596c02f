package scaffold

import (
	"encoding/hex"

	"github.com/arthur-debert/scaffold/pkg/executor"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/plan"
	"github.com/arthur-debert/scaffold/pkg/ui"
	"github.com/spf13/cobra"
)

func newApplyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		Example: `  scaffold apply
  scaffold apply --dry-run
  scaffold apply -p base -p web --set project.name=acme`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}

			exec := executor.New(executor.Options{
				Environment:      s.env,
				PackageVariables: s.packageVariables(),
			})
			report, _, err := exec.Execute(cmd.Context(), s.collection, s.vars)
			if err != nil {
				return err
			}
			return s.output.RenderSummary(ui.NewSummary(report.Results, report.DryRun, report.Duration))
		},
	}
}

func newPlanCmd(opts *globalOptions) *cobra.Command {
	var digests bool

	cmd := &cobra.Command{
		Use:     "plan",
		Short:   MsgPlanShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			lines, err := planLines(s, digests)
			if err != nil {
				return err
			}
			return s.output.RenderPlan(lines)
		},
	}
	cmd.Flags().BoolVar(&digests, "digest", false, MsgFlagDigest)
	return cmd
}

// planLines lists every package's planned operations in execution order
func planLines(s *session, digests bool) ([]ui.PlanLine, error) {
	var lines []ui.PlanLine
	for _, pkg := range s.collection.Packages() {
		for _, item := range s.collection.Entries(pkg) {
			line := ui.PlanLine{
				Package:     pkg,
				Operation:   operations.Name(item.Operation),
				Destination: item.Destination,
			}
			if skip, ok := item.Operation.(*operations.Skip); ok {
				line.Reason = skip.Reason
			}
			if digests {
				digest, err := contentDigest(s, item.Operation)
				if err != nil {
					return nil, err
				}
				line.Digest = digest
			}
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// contentDigest is the short blake3 digest of a write's content.
// Templated sources are rendered with the configured variables only.
func contentDigest(s *session, op operations.Operation) (string, error) {
	switch op.(type) {
	case *operations.Create, *operations.Merge:
	default:
		return "", nil
	}
	content, err := operations.Content(op, s.env, s.vars)
	if err != nil {
		return "", err
	}
	sum := plan.Digest(content)
	return hex.EncodeToString(sum[:6]), nil
}
