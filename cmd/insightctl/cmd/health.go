package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service health and dependency readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := mustClient()

		data, err := client.Get("/health")
		if err != nil {
			return fmt.Errorf("service unreachable: %w", err)
		}
		var health HealthResponse
		if err := unmarshal(data, &health); err != nil {
			return err
		}

		// Readiness reports per-dependency state, 503 included.
		readyData, readyErr := client.Get("/ready")
		var ready ReadyResponse
		if readyErr == nil {
			if err := unmarshal(readyData, &ready); err != nil {
				return err
			}
		}

		switch flagOutput {
		case outputJSON:
			printJSON(map[string]any{"health": health, "ready": ready})
		case outputYAML:
			printYAML(map[string]any{"health": health, "ready": ready})
		default:
			fmt.Printf("Service:  %s\n", health.Status)
			if readyErr != nil {
				fmt.Printf("Ready:    not_ready (%v)\n", readyErr)
				return nil
			}
			fmt.Printf("Ready:    %s\n", ready.Status)
			for name, check := range ready.Checks {
				if check.Error != "" {
					fmt.Printf("  %-10s %s (%s): %s\n", name, check.Status, check.Duration, check.Error)
				} else {
					fmt.Printf("  %-10s %s (%s)\n", name, check.Status, check.Duration)
				}
			}
		}
		return nil
	},
}
