package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: a.run(true, func(cmd *cobra.Command, _ []string, s *session) error {
				names, err := s.svc.Categories(cmd.Context(), s.user)
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Add a category",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
				if err := s.svc.AddCategory(cmd.Context(), s.user, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added category %s\n", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rm NAME",
			Short: "Delete a category and every task filed under it",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
				if err := s.svc.DeleteCategory(cmd.Context(), s.user, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "export PATH",
			Short: "Write categories to a text file, one per line",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
				n, err := s.svc.ExportCategories(cmd.Context(), s.user, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d categories to %s\n", n, args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "import PATH",
			Short: "Add the categories listed in a text file",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
				n, skipped, err := s.svc.ImportCategories(cmd.Context(), s.user, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d categories from %s, skipped %d\n", n, args[0], skipped)
				return nil
			}),
		},
	)
	return cmd
}
