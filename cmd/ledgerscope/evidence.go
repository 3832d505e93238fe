package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haldane/ledgerscope/internal/cli"
	"github.com/haldane/ledgerscope/internal/forensics"
)

func evidenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Manage evidence and its chain of custody",
	}

	cmd.AddCommand(evidenceAddCmd())
	cmd.AddCommand(evidenceShowCmd())
	cmd.AddCommand(evidenceCustodyCmd())

	return cmd
}

func evidenceAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <investigation-id>",
		Short: "Attach an evidence item to an investigation",
		Args:  cobra.ExactArgs(1),
		RunE:  runEvidenceAdd,
	}

	cmd.Flags().String("number", "", "evidence number, e.g. E-001 (required)")
	cmd.Flags().String("type", "", "evidence type, e.g. bank_statement (required)")
	cmd.Flags().String("description", "", "what the item is")
	cmd.Flags().String("source", "", "where the item came from")
	cmd.Flags().String("received", "", "date received (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runEvidenceAdd(cmd *cobra.Command, args []string) error {
	actor, err := currentActor()
	if err != nil {
		return err
	}

	number, _ := cmd.Flags().GetString("number")
	evType, _ := cmd.Flags().GetString("type")
	description, _ := cmd.Flags().GetString("description")
	source, _ := cmd.Flags().GetString("source")
	received, err := parseDateFlag(cmd, "received")
	if err != nil {
		return err
	}

	manager, cleanup, err := initManager(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ev, err := manager.AddEvidence(cmd.Context(), actor, args[0], forensics.AddEvidenceRequest{
		EvidenceNumber: number,
		Type:           evType,
		Description:    description,
		Source:         source,
		ReceivedDate:   received,
	})
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded evidence %s (%s)", ev.EvidenceNumber, ev.ID)))
	return nil
}

func evidenceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <evidence-id>",
		Short: "Show an evidence item and its custody log",
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

			ev, err := manager.GetEvidence(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}

			content := fmt.Sprintf("Type:        %s\nDescription: %s\nSource:      %s",
				ev.Type, orNone(ev.Description), orNone(ev.Source))
			fmt.Println(cli.RenderBox("Evidence "+ev.EvidenceNumber, content))

			if len(ev.CustodyLog) == 0 {
				fmt.Println(cli.FormatInfo("No custody transfers recorded"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Chain of custody"))
			for i, entry := range ev.CustodyLog {
				fmt.Printf("%2d. %s  %s -> %s\n    at %s, for %s\n",
					i+1,
					entry.Timestamp.Format(time.RFC3339),
					entry.TransferredBy,
					entry.TransferredTo,
					entry.Location,
					entry.Purpose)
			}
			return nil
		},
	}
}

func evidenceCustodyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custody <evidence-id>",
		Short: "Record a custody transfer for an evidence item",
		Args:  cobra.ExactArgs(1),
		RunE:  runEvidenceCustody,
	}

	cmd.Flags().String("to", "", "who receives the item (required)")
	cmd.Flags().String("from", "", "who hands the item over (required)")
	cmd.Flags().String("location", "", "where the item will be held (required)")
	cmd.Flags().String("purpose", "", "why the transfer happens (required)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("purpose")

	return cmd
}

func runEvidenceCustody(cmd *cobra.Command, args []string) error {
	actor, err := currentActor()
	if err != nil {
		return err
	}

	to, _ := cmd.Flags().GetString("to")
	from, _ := cmd.Flags().GetString("from")
	location, _ := cmd.Flags().GetString("location")
	purpose, _ := cmd.Flags().GetString("purpose")

	manager, cleanup, err := initManager(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ev, err := manager.AppendCustody(cmd.Context(), actor, args[0], forensics.CustodyTransferRequest{
		TransferredTo: to,
		TransferredBy: from,
		Location:      location,
		Purpose:       purpose,
	})
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Custody recorded; %s now has %d entries",
		ev.EvidenceNumber, len(ev.CustodyLog))))
	return nil
}
