package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/haldane/ledgerscope/internal/benford"
	"github.com/haldane/ledgerscope/internal/cli"
)

func benfordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "benford",
		Short: "Run the Benford's Law screen over your transactions",
		Long: `Screen all of your imported transactions against Benford's Law of
leading-digit distribution. Fabricated amounts tend to have too few 1s
and too many high leading digits; a chi-square test over the full
distribution flags sets that deviate past the 95% critical value.

This is a read-only screen: nothing is stored. Use "analyze" to record
violations against an investigation.`,
		RunE: runBenford,
	}
}

func runBenford(cmd *cobra.Command, _ []string) error {
	actor, err := currentActor()
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.ListTransactions(cmd.Context(), actor)
	if err != nil {
		return err
	}

	if len(txns) == 0 {
		fmt.Println(cli.FormatInfo("No transactions to screen"))
		return nil
	}

	amounts := make([]decimal.Decimal, len(txns))
	for i, txn := range txns {
		amounts[i] = txn.Amount
	}

	fmt.Println(cli.FormatInfo(fmt.Sprintf("Screening %d transactions", len(txns))))
	renderBenfordTable(benford.Analyze(amounts))
	return nil
}
