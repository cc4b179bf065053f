package cli

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/AssetHunter-Intelligence/internal/domain/asset"
)

func newMarketplacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "marketplaces",
		Short: "List the marketplaces the scanner understands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarketplaces(cmd)
		},
	}
}

func runMarketplaces(cmd *cobra.Command) error {
	cliCtx, err := getCLIContext(cmd)
	if err != nil {
		return err
	}

	marketplaces := asset.AllMarketplaces()
	if cliCtx.Output == "json" {
		return printJSON(map[string]any{
			"marketplaces": marketplaces,
			"total":        len(marketplaces),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Marketplace", "Search site"})
	table.SetBorder(false)
	for _, mp := range marketplaces {
		table.Append([]string{mp.String(), mp.SearchSite()})
	}
	table.Render()
	return nil
}
