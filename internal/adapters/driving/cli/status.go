package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/ipc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the provider service is running",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	client := ipc.NewClient(ipc.ClientConfig{
		SocketPath:     settings.SocketPath,
		ConnectTimeout: 2 * time.Second,
	})

	status, err := client.Status(cmd.Context())
	if err != nil {
		if errors.Is(err, ipc.ErrNotRunning) || errors.Is(err, ipc.ErrStaleSocket) {
			cmd.Println("Provider is not running.")
			return nil
		}
		return fmt.Errorf("querying provider: %w", err)
	}

	cmd.Println("Provider is running.")
	cmd.Printf("  PID:      %d\n", status.PID)
	if status.Version != "" {
		cmd.Printf("  Version:  %s\n", status.Version)
	}
	cmd.Printf("  Uptime:   %s\n", time.Since(status.StartedAt).Round(time.Second))
	cmd.Printf("  Requests: %d\n", status.Requests)
	cmd.Printf("  Active:   %d\n", status.ActiveHolds)
	return nil
}
