package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haldane/ledgerscope/internal/benford"
	"github.com/haldane/ledgerscope/internal/cli"
	"github.com/haldane/ledgerscope/internal/model"
	"github.com/haldane/ledgerscope/internal/service"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <investigation-id>",
		Short: "Run the full analysis pass over an investigation",
		Long: `Run every analysis component over the investigation's transactions:
per-transaction risk scoring, duplicate payment detection, unusual timing,
round-dollar screening, and the Benford's Law leading-digit test.

Detected anomalies and risk verdicts are stored with the investigation.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolP("verbose", "v", false, "show every flagged transaction")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	actor, err := currentActor()
	if err != nil {
		return err
	}

	manager, cleanup, err := initManager(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := manager.Analyze(cmd.Context(), actor, args[0])
	if err != nil {
		return err
	}

	renderReport(report, verbose)
	return nil
}

func renderReport(report *service.AnalysisReport, verbose bool) {
	fmt.Println(cli.FormatTitle("Analysis report"))

	high, medium := 0, 0
	for _, a := range report.TransactionAnalyses {
		switch a.RiskLevel {
		case model.RiskHigh:
			high++
		case model.RiskMedium:
			medium++
		}
	}

	summary := fmt.Sprintf("Transactions scored: %d\nHigh risk:           %s\nMedium risk:         %s",
		len(report.TransactionAnalyses),
		cli.ErrorStyle.Render(fmt.Sprintf("%d", high)),
		cli.WarningStyle.Render(fmt.Sprintf("%d", medium)))
	fmt.Println(cli.RenderBox("Risk scoring", summary))

	renderAnomalySection("Duplicate payments", report.DuplicatePayments)
	renderAnomalySection("Unusual timing", report.UnusualTiming)
	renderAnomalySection("Round-dollar pattern", report.RoundDollars)
	renderAnomalySection("Benford violations", report.BenfordViolations)

	if len(report.AfterHoursAdvisories) > 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf(
			"%d after-hours advisories (reported only, not stored)", len(report.AfterHoursAdvisories))))
	}

	renderBenfordTable(report.BenfordsLaw)

	if verbose {
		for _, a := range report.TransactionAnalyses {
			if a.Score == 0 {
				continue
			}
			fmt.Printf("  %s score=%d risk=%s legitimacy=%s flags=%v\n",
				a.TransactionID, a.Score, a.RiskLevel, a.Legitimacy, a.RedFlags)
		}
	}

	for _, e := range report.Errors {
		fmt.Println(cli.FormatError(fmt.Sprintf("%s failed: %s", e.Analysis, e.Message)))
	}
}

func renderAnomalySection(title string, anomalies []model.Anomaly) {
	if len(anomalies) == 0 {
		fmt.Println(cli.FormatSuccess(title + ": none"))
		return
	}
	fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %d", title, len(anomalies))))
	for _, a := range anomalies {
		fmt.Printf("  [%s] %s (%d transactions)\n",
			renderSeverity(a.Severity), a.Description, len(a.TransactionIDs))
	}
}

func renderSeverity(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return cli.ErrorStyle.Render(string(s))
	case model.SeverityMedium:
		return cli.WarningStyle.Render(string(s))
	default:
		return cli.SubtleStyle.Render(string(s))
	}
}

func renderBenfordTable(digits []benford.DigitResult) {
	if len(digits) == 0 {
		return
	}

	fmt.Println(cli.FormatTitle("Benford's Law"))
	header := fmt.Sprintf("%5s %10s %10s %10s %7s", "DIGIT", "OBSERVED", "EXPECTED", "Z-SCORE", "PASS")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for _, d := range digits {
		pass := cli.SuccessIcon
		if !d.Passed {
			pass = cli.ErrorIcon
		}
		fmt.Printf("%5d %9.1f%% %9.1f%% %10.2f %7s\n",
			d.Digit, d.ObservedPercent, d.ExpectedPercent, d.ZScore, pass)
	}

	overall := digits[0]
	verdict := cli.FormatSuccess(fmt.Sprintf("chi-square %.2f within critical value %.3f",
		overall.TotalChiSquare, overall.CriticalValue))
	if !overall.OverallPassed {
		verdict = cli.FormatError(fmt.Sprintf("chi-square %.2f exceeds critical value %.3f",
			overall.TotalChiSquare, overall.CriticalValue))
	}
	fmt.Println(verdict)
}
