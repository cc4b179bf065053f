package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/scanning"
	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

var (
	scanMarketplaces string
	scanMinUsers     int
	scanMaxResults   int
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <query>",
		Short: "Sweep marketplaces for neglected assets matching a query",
		Long:  "Searches the selected marketplaces for listings matching the query,\nextracts user counts and ratings, detects distress signals, and prices\neach asset.  With a generative API key configured every listing is also\nverified by the AI collaborator.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&scanMarketplaces, "marketplaces", "m", "", "comma-separated marketplaces (default: all)")
	cmd.Flags().IntVar(&scanMinUsers, "min-users", 0, "drop assets below this user count")
	cmd.Flags().IntVar(&scanMaxResults, "max-results", 0, "max listings per marketplace (default: config)")

	return cmd
}

func runScan(cmd *cobra.Command, query string) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}
	if !cliCtx.Scan.SearchConfigured() {
		return fmt.Errorf("search API key is not configured (set HUNTER_SEARCH_API_KEY)")
	}
	if !cliCtx.Verifier.Configured() {
		printWarning("no generative API key configured, using extraction-only enrichment")
	}

	marketplaces, err := parseMarketplaceList(scanMarketplaces)
	if err != nil {
		return err
	}

	maxResults := scanMaxResults
	if maxResults <= 0 {
		maxResults = cliCtx.Config.Scan.MaxResultsPerMarketplace
	}

	result, err := cliCtx.Scan.Scan(cmd.Context(), scanning.ScanRequest{
		Query:                    query,
		Marketplaces:             marketplaces,
		MinUsers:                 scanMinUsers,
		MaxResultsPerMarketplace: maxResults,
	})
	if err != nil {
		return err
	}

	if cliCtx.Output == "json" {
		return printJSON(result)
	}

	renderAssetTable(result.Assets)
	printSuccess("%d assets across %d marketplaces in %dms",
		result.TotalFound, result.MarketplacesScanned, result.ScanDurationMS)
	return nil
}

// parseMarketplaceList rejects unknown tokens: an interactive caller wants
// the typo surfaced, not silently swept around.
func parseMarketplaceList(raw string) ([]asset.Marketplace, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []asset.Marketplace
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		mp, ok := asset.ParseMarketplace(token)
		if !ok {
			return nil, fmt.Errorf("unknown marketplace %q (see: hunter marketplaces)", token)
		}
		out = append(out, mp)
	}
	return out, nil
}

func renderAssetTable(assets []asset.EnrichedAsset) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Marketplace", "Users", "Rating", "Score", "MRR", "Valuation", "Signals"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, a := range assets {
		table.Append([]string{
			truncate(a.Name, 40),
			a.Marketplace.String(),
			strconv.Itoa(a.Users),
			fmt.Sprintf("%.1f", a.Rating),
			strconv.Itoa(a.DistressScore),
			fmt.Sprintf("$%.2f", a.EstimatedMRR),
			fmt.Sprintf("$%.0f", a.EstimatedValuation),
			signalList(a.DistressSignals),
		})
	}
	table.Render()
}

func signalList(signals []asset.DistressSignal) string {
	if len(signals) == 0 {
		return "-"
	}
	tokens := make([]string, len(signals))
	for i, s := range signals {
		tokens[i] = string(s)
	}
	return strings.Join(tokens, ",")
}

// truncate shortens s to at most max runes.  Store titles carry emoji and
// CJK characters, so the cut must happen on rune boundaries.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
