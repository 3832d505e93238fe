package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haldane/ledgerscope/internal/cli"
	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/forensics"
	"github.com/haldane/ledgerscope/internal/model"
)

func investigationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "investigations",
		Aliases: []string{"inv"},
		Short:   "Manage forensic investigations",
	}

	cmd.AddCommand(investigationsCreateCmd())
	cmd.AddCommand(investigationsListCmd())
	cmd.AddCommand(investigationsShowCmd())
	cmd.AddCommand(investigationsStatusCmd())

	return cmd
}

func investigationsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new investigation",
		RunE:  runInvestigationsCreate,
	}

	cmd.Flags().String("title", "", "investigation title (required)")
	cmd.Flags().String("allegations", "", "summary of the allegations")
	cmd.Flags().String("period-start", "", "start of the period under review (YYYY-MM-DD)")
	cmd.Flags().String("period-end", "", "end of the period under review (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runInvestigationsCreate(cmd *cobra.Command, _ []string) error {
	actor, err := currentActor()
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	allegations, _ := cmd.Flags().GetString("allegations")

	periodStart, err := parseDateFlag(cmd, "period-start")
	if err != nil {
		return err
	}
	periodEnd, err := parseDateFlag(cmd, "period-end")
	if err != nil {
		return err
	}

	manager, cleanup, err := initManager(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	inv, err := manager.CreateInvestigation(cmd.Context(), actor, forensics.CreateInvestigationRequest{
		Title:       title,
		Allegations: allegations,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	})
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Opened %s (%s)", inv.CaseNumber, inv.ID)))
	return nil
}

func investigationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your investigations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}

			manager, cleanup, err := initManager(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			investigations, err := manager.ListInvestigations(cmd.Context(), actor)
			if err != nil {
				return err
			}

			if len(investigations) == 0 {
				fmt.Println(cli.FormatInfo("No investigations yet"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Investigations"))
			header := fmt.Sprintf("%-20s %-12s %-10s %s", "CASE", "STATUS", "CREATED", "TITLE")
			fmt.Println(cli.TableHeaderStyle.Render(header))
			for _, inv := range investigations {
				fmt.Printf("%-20s %-12s %-10s %s\n",
					inv.CaseNumber,
					renderStatus(inv.Status),
					inv.CreatedAt.Format("2006-01-02"),
					inv.Title)
			}
			return nil
		},
	}
}

func investigationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <investigation-id>",
		Short: "Show one investigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}

			manager, cleanup, err := initManager(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			inv, err := manager.GetInvestigation(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}

			content := fmt.Sprintf("Case:        %s\nStatus:      %s\nAllegations: %s\nPeriod:      %s\nCreated:     %s",
				inv.CaseNumber,
				renderStatus(inv.Status),
				orNone(inv.Allegations),
				renderPeriod(inv.PeriodStart, inv.PeriodEnd),
				inv.CreatedAt.Format(time.RFC3339))
			fmt.Println(cli.RenderBox(inv.Title, content))
			return nil
		},
	}
}

func investigationsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <investigation-id> <open|in_progress|completed|closed>",
		Short: "Set an investigation's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}

			manager, cleanup, err := initManager(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			inv, err := manager.SetStatus(cmd.Context(), actor, args[0], model.InvestigationStatus(args[1]))
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s is now %s", inv.CaseNumber, inv.Status)))
			return nil
		},
	}
}

func renderStatus(status model.InvestigationStatus) string {
	switch status {
	case model.StatusOpen, model.StatusInProgress:
		return cli.InfoStyle.Render(string(status))
	case model.StatusCompleted:
		return cli.SuccessStyle.Render(string(status))
	default:
		return cli.SubtleStyle.Render(string(status))
	}
}

func renderPeriod(start, end time.Time) string {
	if start.IsZero() && end.IsZero() {
		return "all transactions"
	}
	format := func(t time.Time) string {
		if t.IsZero() {
			return "..."
		}
		return t.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", format(start), format(end))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// parseDateFlag reads an optional YYYY-MM-DD flag, returning the zero time
// when the flag was not set.
func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, common.ValidationError(name, "must be YYYY-MM-DD")
	}
	return t, nil
}
