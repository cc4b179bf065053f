package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
)

var analyzeMarketplace string

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Produce the deep acquisition report for one asset",
		Long:  "Runs the full pipeline on a single listing URL: verification, scoring,\nrevenue estimation, then the deep acquisition analysis with negotiation\nstrategy and cold-email draft.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&analyzeMarketplace, "marketplace", "m", "", "marketplace the listing belongs to (required)")
	cmd.MarkFlagRequired("marketplace")

	return cmd
}

func runAnalyze(cmd *cobra.Command, url string) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}
	if !cliCtx.Verifier.Configured() {
		return fmt.Errorf("generative API key is not configured (set HUNTER_AI_API_KEY)")
	}

	mp, known := asset.ParseMarketplace(analyzeMarketplace)
	if !known {
		printWarning("unknown marketplace %q, revenue uses the default base rate", analyzeMarketplace)
	}

	raw := asset.RawSearchResult{
		Title:       "Asset under analysis",
		URL:         url,
		Marketplace: mp,
	}
	outcome := cliCtx.Verifier.Verify(cmd.Context(), raw)
	enriched := cliCtx.Verifier.Enrich(raw, outcome)

	report, err := cliCtx.Analysis.Analyze(cmd.Context(), enriched)
	if err != nil {
		return err
	}

	if cliCtx.Output == "json" {
		return printJSON(report)
	}

	renderReport(report)
	return nil
}

func renderReport(r *hunterai.IntelligenceReport) {
	fmt.Printf("Asset %s ", r.AssetID)
	printSuccess("overall score %d/100", r.OverallScore)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetBorder(false)
	table.Append([]string{"Distress", fmt.Sprintf("%d/10", r.HunterRadar.Distress)})
	table.Append([]string{"Monetization gap", fmt.Sprintf("%d/10", r.HunterRadar.MonetizationGap)})
	table.Append([]string{"Technical risk", fmt.Sprintf("%d/10", r.HunterRadar.TechnicalRisk)})
	table.Append([]string{"Market position", fmt.Sprintf("%d/10", r.HunterRadar.MarketPosition)})
	table.Append([]string{"Flip potential", fmt.Sprintf("%d/10", r.HunterRadar.FlipPotential)})
	table.Append([]string{"MRR potential", fmt.Sprintf("$%.0f - $%.0f (mid $%.0f)", r.MRRPotential.Low, r.MRRPotential.High, r.MRRPotential.Mid)})
	table.Append([]string{"Valuation", fmt.Sprintf("$%.0f - $%.0f (%s)", r.Valuation.Low, r.Valuation.High, r.Valuation.Multiple)})
	table.Append([]string{"Strategy", r.Acquisition.Strategy})
	table.Append([]string{"Opening offer", r.Acquisition.OpeningOffer})
	table.Append([]string{"Walk away", r.Acquisition.WalkAway})
	table.Render()

	if len(r.Risks) > 0 {
		fmt.Println("\nRisks:")
		for _, risk := range r.Risks {
			fmt.Printf("  - %s\n", risk)
		}
	}
	if len(r.Opportunities) > 0 {
		fmt.Println("\nOpportunities:")
		for _, opp := range r.Opportunities {
			fmt.Printf("  - %s\n", opp)
		}
	}
	if r.ColdEmail.Subject != "" {
		fmt.Printf("\nCold email draft (subject: %s):\n%s\n", r.ColdEmail.Subject, r.ColdEmail.Body)
	}
}
