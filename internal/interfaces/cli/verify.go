package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/valuation"
	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

var verifyMarketplace string

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <url>",
		Short: "Verify a single asset listing with the AI collaborator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&verifyMarketplace, "marketplace", "m", "", "marketplace the listing belongs to (required)")
	cmd.MarkFlagRequired("marketplace")

	return cmd
}

func runVerify(cmd *cobra.Command, url string) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}
	if !cliCtx.Verifier.Configured() {
		return fmt.Errorf("generative API key is not configured (set HUNTER_AI_API_KEY)")
	}

	mp, known := asset.ParseMarketplace(verifyMarketplace)
	if !known {
		printWarning("unknown marketplace %q, revenue uses the default base rate", verifyMarketplace)
	}

	outcome := cliCtx.Verifier.Verify(cmd.Context(), asset.RawSearchResult{
		Title:       "Asset to verify",
		URL:         url,
		Marketplace: mp,
	})

	score := asset.Score(outcome.Signals)
	mrr := valuation.EstimateMRR(mp, outcome.EstimatedUsers, outcome.EstimatedRating)

	if cliCtx.Output == "json" {
		return printJSON(map[string]any{
			"asset_id":            asset.AssetID(url),
			"verified":            outcome.Verified,
			"distress_score":      score,
			"distress_signals":    outcome.Signals,
			"estimated_mrr":       mrr,
			"estimated_valuation": valuation.Valuation(mrr, score),
			"verification_notes":  outcome.Notes,
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetBorder(false)
	table.Append([]string{"Asset ID", asset.AssetID(url)})
	table.Append([]string{"Verified", fmt.Sprintf("%t", outcome.Verified)})
	table.Append([]string{"Distress score", fmt.Sprintf("%d", score)})
	table.Append([]string{"Signals", signalList(outcome.Signals)})
	table.Append([]string{"Estimated MRR", fmt.Sprintf("$%.2f", mrr)})
	table.Append([]string{"Valuation", fmt.Sprintf("$%.0f", valuation.Valuation(mrr, score))})
	if outcome.Notes != "" {
		table.Append([]string{"Notes", outcome.Notes})
	}
	table.Render()

	if outcome.Fallback {
		printWarning("verification fell back to defaults")
	}
	return nil
}
