package cli

import (
	"github.com/spf13/cobra"
)

var (
	metasJSON     bool
	activateTerms []string
)

var metasCmd = &cobra.Command{
	Use:   "metas [ids...]",
	Short: "Show display metadata for result identifiers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		provider, release, err := providerFor(ctx)
		if err != nil {
			return err
		}
		defer release()

		metas, err := describe(ctx, provider, args)
		if err != nil {
			return err
		}
		if metasJSON {
			return outputJSON(cmd, metas)
		}
		return outputResults(cmd, metas, len(metas))
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate [id]",
	Short: "Open a result with its default application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		provider, release, err := providerFor(ctx)
		if err != nil {
			return err
		}
		defer release()

		provider.ActivateResult(ctx, args[0], activateTerms)
		cmd.Printf("Activated %s\n", args[0])
		return nil
	},
}

var launchCmd = &cobra.Command{
	Use:   "launch [terms...]",
	Short: "Open the search location in the file manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		provider, release, err := providerFor(ctx)
		if err != nil {
			return err
		}
		defer release()

		provider.LaunchSearch(ctx, args)
		cmd.Println("Launched search location")
		return nil
	},
}

func init() {
	metasCmd.Flags().BoolVar(&metasJSON, "json", false, "output metadata as JSON")
	activateCmd.Flags().StringSliceVarP(&activateTerms, "terms", "t", nil, "terms the result was found with")

	rootCmd.AddCommand(metasCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(launchCmd)
}
