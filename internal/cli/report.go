package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"diary/internal/errs"
	"diary/internal/transfer"
)

func (a *app) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the theme preference",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
			ctx := cmd.Context()
			var (
				dark bool
				err  error
			)
			switch {
			case len(args) == 0:
				dark, err = s.svc.Theme(ctx, s.user)
			case args[0] == "toggle":
				dark, err = s.svc.ToggleTheme(ctx, s.user)
			default:
				dark = args[0] == "dark"
				err = s.svc.SetTheme(ctx, s.user, dark)
			}
			if err != nil {
				return err
			}
			if dark {
				fmt.Fprintln(cmd.OutOrStdout(), "dark")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "light")
			}
			return nil
		}),
	}
}

func (a *app) statsCmd() *cobra.Command {
	var xlsx string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many tasks exist and how many are done",
		Args:  cobra.NoArgs,
		RunE: a.run(true, func(cmd *cobra.Command, _ []string, s *session) error {
			if xlsx != "" {
				st, err := s.svc.ExportStats(cmd.Context(), s.user, xlsx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "total: %d\ndone: %d\nwritten to %s\n", st.Total, st.Done, xlsx)
				return nil
			}
			st, err := s.svc.Stats(cmd.Context(), s.user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\ndone: %d\n", st.Total, st.Done)
			return nil
		}),
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the summary to this xlsx file")
	return cmd
}

func (a *app) monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month MONTH",
		Short: "List the tasks of a month (1-12) across all years",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
			month, err := strconv.Atoi(args[0])
			if err != nil {
				return errs.E("month", errs.ErrValidation, fmt.Sprintf("invalid month %q", args[0]))
			}
			tasks, err := s.svc.Month(cmd.Context(), s.user, month)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tasks for the selected month")
				return nil
			}
			return transfer.WriteMonth(cmd.OutOrStdout(), tasks)
		}),
	}
}

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "xlsx PATH",
			Short: "Write all tasks to an xlsx workbook",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
				n, err := s.svc.ExportWorkbook(cmd.Context(), s.user, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d task(s) to %s\n", n, args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "text PATH",
			Short: "Write all tasks to a text file ordered by date",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
				n, err := s.svc.ExportText(cmd.Context(), s.user, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d task(s) to %s\n", n, args[0])
				return nil
			}),
		},
	)
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "xlsx PATH",
		Short: "Add the tasks of an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
			imported, skipped, err := s.svc.ImportWorkbook(cmd.Context(), s.user, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d task(s), skipped %d row(s)\n", imported, skipped)
			return nil
		}),
	})
	return cmd
}
