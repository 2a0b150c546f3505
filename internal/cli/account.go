package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"diary/internal/errs"
	"diary/internal/ui"
)

func (a *app) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account for --user",
		Args:  cobra.NoArgs,
		RunE: a.run(false, func(cmd *cobra.Command, _ []string, s *session) error {
			if err := s.svc.Register(cmd.Context(), s.user, a.secret()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", s.user)
			return nil
		}),
	}
}

func (a *app) passwdCmd() *cobra.Command {
	var newPassword, confirm string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of --user",
		Args:  cobra.NoArgs,
		RunE: a.run(false, func(cmd *cobra.Command, _ []string, s *session) error {
			if err := s.svc.ChangePassword(cmd.Context(), s.user, a.secret(), newPassword, confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password changed")
			return nil
		}),
	}
	cmd.Flags().StringVar(&newPassword, "new", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password again")
	return cmd
}

func (a *app) unregisterCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "unregister",
		Short: "Delete --user with all of its categories and tasks",
		Args:  cobra.NoArgs,
		RunE: a.run(true, func(cmd *cobra.Command, _ []string, s *session) error {
			if !yes {
				return errs.E("unregister", errs.ErrValidation, "pass --yes to delete the account and all its tasks")
			}
			if err := s.svc.DeleteAccount(cmd.Context(), s.user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", s.user)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive day view",
		Args:  cobra.NoArgs,
		RunE: a.run(true, func(cmd *cobra.Command, _ []string, s *session) error {
			return ui.Run(cmd.Context(), s.svc, s.cfg, s.user)
		}),
	}
}
