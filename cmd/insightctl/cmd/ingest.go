package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Upload scan report CSVs",
}

func init() {
	weeklyCmd := &cobra.Command{
		Use:   "weekly FILE",
		Short: "Ingest a weekly infrastructure report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")
			week, _ := cmd.Flags().GetInt("week")

			client := mustClient()
			data, err := client.UploadCSV("/api/v1/ingest/weekly-dhs", args[0], map[string]string{
				"year":       strconv.Itoa(year),
				"month":      strconv.Itoa(month),
				"week_index": strconv.Itoa(week),
			})
			if err != nil {
				return err
			}
			return printIngestResult(data)
		},
	}
	weeklyCmd.Flags().Int("year", 0, "Report year")
	weeklyCmd.Flags().Int("month", 0, "Report month (1-12)")
	weeklyCmd.Flags().Int("week", 0, "Week of month (1-6)")
	_ = weeklyCmd.MarkFlagRequired("year")
	_ = weeklyCmd.MarkFlagRequired("month")
	_ = weeklyCmd.MarkFlagRequired("week")

	monthlyWebCmd := &cobra.Command{
		Use:   "monthly-web FILE",
		Short: "Ingest a monthly web application report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")

			client := mustClient()
			data, err := client.UploadCSV("/api/v1/ingest/monthly-dhs-web", args[0], map[string]string{
				"year":  strconv.Itoa(year),
				"month": strconv.Itoa(month),
			})
			if err != nil {
				return err
			}
			return printIngestResult(data)
		},
	}
	monthlyWebCmd.Flags().Int("year", 0, "Report year")
	monthlyWebCmd.Flags().Int("month", 0, "Report month (1-12)")
	_ = monthlyWebCmd.MarkFlagRequired("year")
	_ = monthlyWebCmd.MarkFlagRequired("month")

	deptCmd := &cobra.Command{
		Use:   "dept FILE",
		Short: "Ingest a departmental scan report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")
			department, _ := cmd.Flags().GetString("department")

			client := mustClient()
			data, err := client.UploadCSV("/api/v1/ingest/dept-scan", args[0], map[string]string{
				"year":       strconv.Itoa(year),
				"month":      strconv.Itoa(month),
				"department": department,
			})
			if err != nil {
				return err
			}
			return printIngestResult(data)
		},
	}
	deptCmd.Flags().Int("year", 0, "Report year")
	deptCmd.Flags().Int("month", 0, "Report month (1-12)")
	deptCmd.Flags().String("department", "", "Department name")
	_ = deptCmd.MarkFlagRequired("year")
	_ = deptCmd.MarkFlagRequired("month")
	_ = deptCmd.MarkFlagRequired("department")

	ingestCmd.AddCommand(weeklyCmd, monthlyWebCmd, deptCmd)
}

func printIngestResult(data []byte) error {
	var resp IngestResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	default:
		fmt.Printf("Ingested %s\n", resp.ScanID)
		fmt.Printf("  Processed: %d rows\n", resp.RowsProcessed)
		fmt.Printf("  Skipped:   %d rows\n", resp.RowsSkipped)
		fmt.Printf("  Stored at: %s\n", resp.StoredAt)
	}
	return nil
}
