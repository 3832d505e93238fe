package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/haldane/ledgerscope/internal/cli"
	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/damages"
	"github.com/haldane/ledgerscope/internal/model"
)

func damagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "damages",
		Short: "Calculate monetary damages",
	}

	cmd.AddCommand(damagesDirectLossCmd())
	cmd.AddCommand(damagesNetWorthCmd())
	cmd.AddCommand(damagesInterestCmd())

	return cmd
}

func damagesDirectLossCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "direct-loss <investigation-id>",
		Short: "Sum the improper transactions of an investigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}
			ids, _ := cmd.Flags().GetStringSlice("transactions")

			manager, cleanup, err := initManager(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := manager.CalculateDirectLoss(cmd.Context(), actor, args[0], ids)
			if err != nil {
				return err
			}

			renderDamageResult(result)
			return nil
		},
	}

	cmd.Flags().StringSlice("transactions", nil, "transaction ids marked improper")

	return cmd
}

func damagesNetWorthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "net-worth",
		Short: "Estimate unexplained wealth with the net-worth method",
		Long: `The net-worth method estimates misappropriated funds indirectly:
net worth increase plus personal expenditures minus documented
legitimate income. A negative result means documented income covers
the observed accumulation.`,
		RunE: runDamagesNetWorth,
	}

	cmd.Flags().String("beginning", "", "net worth at the start of the period (required)")
	cmd.Flags().String("ending", "", "net worth at the end of the period (required)")
	cmd.Flags().String("expenditures", "0", "personal expenditures during the period")
	cmd.Flags().String("income", "0", "documented legitimate income")
	_ = cmd.MarkFlagRequired("beginning")
	_ = cmd.MarkFlagRequired("ending")

	return cmd
}

func runDamagesNetWorth(cmd *cobra.Command, _ []string) error {
	beginning, err := parseDecimalFlag(cmd, "beginning")
	if err != nil {
		return err
	}
	ending, err := parseDecimalFlag(cmd, "ending")
	if err != nil {
		return err
	}
	expenditures, err := parseDecimalFlag(cmd, "expenditures")
	if err != nil {
		return err
	}
	income, err := parseDecimalFlag(cmd, "income")
	if err != nil {
		return err
	}

	result := damages.NetWorth(damages.NetWorthInput{
		BeginningNetWorth:    beginning,
		EndingNetWorth:       ending,
		PersonalExpenditures: expenditures,
		LegitimateIncome:     income,
	})

	renderDamageResult(result)
	return nil
}

func damagesInterestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Accrue simple pre-judgment interest on a loss",
		RunE:  runDamagesInterest,
	}

	cmd.Flags().String("amount", "", "loss amount (required)")
	cmd.Flags().String("loss-date", "", "date the loss occurred, YYYY-MM-DD (required)")
	cmd.Flags().Float64("rate", 0.10, "simple annual interest rate")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("loss-date")

	return cmd
}

func runDamagesInterest(cmd *cobra.Command, _ []string) error {
	amount, err := parseDecimalFlag(cmd, "amount")
	if err != nil {
		return err
	}
	lossDate, err := parseDateFlag(cmd, "loss-date")
	if err != nil {
		return err
	}
	rate, _ := cmd.Flags().GetFloat64("rate")

	result, err := damages.PrejudgmentInterest(damages.InterestInput{
		LossAmount: amount,
		LossDate:   lossDate,
		AnnualRate: rate,
	}, time.Now().UTC())
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Loss amount: %s\nRate:        %.2f%% simple annual\nAccrued for: %.2f years\nInterest:    %s\nTotal:       %s",
		amount.StringFixed(2),
		result.AnnualRate*100,
		result.Years,
		result.Interest.StringFixed(2),
		amount.Add(result.Interest).StringFixed(2))
	fmt.Println(cli.RenderBox("Pre-judgment interest", content))
	return nil
}

func renderDamageResult(result *model.DamageCalculationResult) {
	total := result.TotalDamage.StringFixed(2)
	if result.TotalDamage.IsNegative() {
		total = cli.WarningStyle.Render(total)
	} else {
		total = cli.BoldStyle.Render(total)
	}

	content := fmt.Sprintf("Method:     %s\nConfidence: %s\nTotal:      %s",
		result.Method, result.Confidence, total)
	fmt.Println(cli.RenderBox("Damage calculation", content))

	if len(result.Breakdown) > 0 {
		fmt.Println(cli.FormatTitle("Breakdown"))
		for _, item := range result.Breakdown {
			fmt.Printf("  %-24s %14s  %s\n",
				item.Category, item.Amount.StringFixed(2), item.Description)
		}
	}

	for _, a := range result.Assumptions {
		fmt.Println(cli.SubtleStyle.Render("assumes: " + a))
	}
	for _, l := range result.Limitations {
		fmt.Println(cli.SubtleStyle.Render("limit:   " + l))
	}
}

// parseDecimalFlag reads a flag as an exact decimal. Money never goes
// through float64.
func parseDecimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	value, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, common.ValidationError(name, "must be a decimal number")
	}
	return d, nil
}
