package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"diary/internal/errs"
	"diary/internal/filter"
	"diary/internal/label"
	"diary/internal/models"
	"diary/internal/storage"
)

func (a *app) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, list and change tasks",
	}
	cmd.AddCommand(
		a.taskAddCmd(),
		a.taskListCmd(),
		a.taskDoneCmd("done", true),
		a.taskDoneCmd("undone", false),
		a.taskRmCmd(),
		a.taskSetCmd(),
		a.taskClearDoneCmd(),
		a.taskAllDoneCmd(),
	)
	return cmd
}

func (a *app) taskAddCmd() *cobra.Command {
	var date, category, priority string
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			prio := s.cfg.Priority()
			if priority != "" {
				if prio, err = models.ParsePriority(priority); err != nil {
					return err
				}
			}
			id, err := s.svc.AddTask(cmd.Context(), s.user, day, strings.Join(args, " "), category, prio)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added task %d\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category, created if new")
	cmd.Flags().StringVarP(&priority, "priority", "P", "", "Low, Medium or High (default from config)")
	return cmd
}

func (a *app) taskListCmd() *cobra.Command {
	var date, category, priority, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a day",
		Args:  cobra.NoArgs,
		RunE: a.run(true, func(cmd *cobra.Command, _ []string, s *session) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			if priority != "" && priority != models.AllPriorities {
				p, err := models.ParsePriority(priority)
				if err != nil {
					return err
				}
				priority = string(p)
			}
			tasks, err := s.svc.Day(cmd.Context(), s.user, day, filter.FromSelection(search, category, priority))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "no tasks")
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(out, "%d\t%s\n", t.ID, label.EncodeTask(t))
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	cmd.Flags().StringVarP(&priority, "priority", "P", "", "only this priority")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text search")
	return cmd
}

// labelTarget holds the flags that address tasks by their label instead of the id.
type labelTarget struct {
	label string
	date  string
}

func (lt *labelTarget) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&lt.label, "label", "l", "", `address tasks by label, e.g. "[✓] Buy milk (Home) [High]"`)
	cmd.Flags().StringVarP(&lt.date, "date", "d", "", "day of the labelled task (default today)")
}

func (a *app) taskDoneCmd(use string, done bool) *cobra.Command {
	var lt labelTarget
	short := "Mark a task done"
	if !done {
		short = "Mark a task pending"
	}
	cmd := &cobra.Command{
		Use:   use + " [ID]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
			if lt.label != "" {
				day, err := parseDay(lt.date)
				if err != nil {
					return err
				}
				n, err := s.svc.SetDoneByLabel(cmd.Context(), s.user, day, lt.label, done)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d task(s)\n", n)
				return nil
			}
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if err := s.svc.SetDone(cmd.Context(), s.user, id, done); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated task %d\n", id)
			return nil
		}),
	}
	lt.bind(cmd)
	return cmd
}

func (a *app) taskRmCmd() *cobra.Command {
	var lt labelTarget
	cmd := &cobra.Command{
		Use:   "rm [ID]",
		Short: "Delete a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
			if lt.label != "" {
				day, err := parseDay(lt.date)
				if err != nil {
					return err
				}
				n, err := s.svc.DeleteByLabel(cmd.Context(), s.user, day, lt.label)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d task(s)\n", n)
				return nil
			}
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if err := s.svc.Delete(cmd.Context(), s.user, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		}),
	}
	lt.bind(cmd)
	return cmd
}

func (a *app) taskSetCmd() *cobra.Command {
	var lt labelTarget
	var category, priority string
	cmd := &cobra.Command{
		Use:   "set [ID]",
		Short: "Change the category or priority of a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.run(true, func(cmd *cobra.Command, args []string, s *session) error {
			var upd storage.TaskUpdate
			if cmd.Flags().Changed("category") {
				upd.Category = &category
			}
			if cmd.Flags().Changed("priority") {
				p, err := models.ParsePriority(priority)
				if err != nil {
					return err
				}
				upd.Priority = &p
			}
			if upd.Category == nil && upd.Priority == nil {
				return errs.E("task set", errs.ErrValidation, "nothing to change, pass --category or --priority")
			}

			if lt.label != "" {
				day, err := parseDay(lt.date)
				if err != nil {
					return err
				}
				n, err := s.svc.UpdateByLabel(cmd.Context(), s.user, day, lt.label, upd)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d task(s)\n", n)
				return nil
			}
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if err := s.svc.UpdateTask(cmd.Context(), s.user, id, upd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated task %d\n", id)
			return nil
		}),
	}
	lt.bind(cmd)
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category, created if new")
	cmd.Flags().StringVarP(&priority, "priority", "P", "", "new priority")
	return cmd
}

func (a *app) taskClearDoneCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "clear-done",
		Short: "Delete the finished tasks of a day",
		Args:  cobra.NoArgs,
		RunE: a.run(true, func(cmd *cobra.Command, _ []string, s *session) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			n, err := s.svc.ClearDone(cmd.Context(), s.user, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d task(s)\n", n)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) taskAllDoneCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "all-done",
		Short: "Mark every task of a day done",
		Args:  cobra.NoArgs,
		RunE: a.run(true, func(cmd *cobra.Command, _ []string, s *session) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			n, err := s.svc.CompleteAll(cmd.Context(), s.user, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d task(s)\n", n)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	return cmd
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errs.E("task", errs.ErrValidation, "a task id or --label is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.E("task", errs.ErrValidation, fmt.Sprintf("invalid task id %q", args[0]))
	}
	return id, nil
}
