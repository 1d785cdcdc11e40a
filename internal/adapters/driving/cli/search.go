package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search files under the search location",
	Long: `Runs one search the way the desktop shell would and prints the best
matches with their display names.

Every term must appear in a file's name or path. Single-character queries
are rejected and return no results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// resultJSON is the JSON form of one result.
type resultJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	IconKind string `json:"icon_kind"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	provider, release, err := providerFor(ctx)
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()
	ids, err := provider.GetInitialResultSet(ctx, args)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	logger.Elapsed("search", start)

	total := len(ids)
	if searchLimit > 0 && len(ids) > searchLimit {
		ids = ids[:searchLimit]
	}

	metas, err := describe(ctx, provider, ids)
	if err != nil {
		return err
	}

	if searchJSON {
		return outputJSON(cmd, metas)
	}
	return outputResults(cmd, metas, total)
}

func describe(ctx context.Context, provider driving.SearchProvider, ids []string) ([]domain.ResultMeta, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	metas, err := provider.GetResultMetas(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving results: %w", err)
	}
	return metas, nil
}

func outputJSON(cmd *cobra.Command, metas []domain.ResultMeta) error {
	out := make([]resultJSON, 0, len(metas))
	for _, m := range metas {
		out = append(out, resultJSON{
			ID:       m.ID,
			Name:     m.Name,
			Icon:     m.Icon.Token(),
			IconKind: m.Icon.Kind.String(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResults(cmd *cobra.Command, metas []domain.ResultMeta, total int) error {
	if len(metas) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	if total > len(metas) {
		cmd.Printf("Results (%d of %d):\n", len(metas), total)
	} else {
		cmd.Println("Results:")
	}
	cmd.Println()
	for i, m := range metas {
		cmd.Printf("  %s %s\n", p.index(fmt.Sprintf("[%d]", i+1)), p.name(m.Name))
		cmd.Printf("      %s\n", p.id(m.ID, 6))
	}
	return nil
}
