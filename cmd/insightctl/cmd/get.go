package cmd

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Display one or many resources",
}

func init() {
	scansCmd := &cobra.Command{
		Use:   "scans",
		Short: "List ingested weekly scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := mustClient()
			data, err := client.Get("/api/v1/weekly-dhs/scans")
			if err != nil {
				return err
			}

			var resp ScanListResponse
			if err := unmarshal(data, &resp); err != nil {
				return err
			}

			switch flagOutput {
			case outputJSON:
				printJSON(resp)
			case outputYAML:
				printYAML(resp)
			default:
				if len(resp.Items) == 0 {
					fmt.Println("No scans found.")
					return nil
				}
				t := newTable("SCAN ID", "YEAR", "MONTH", "WEEK", "DATE")
				for _, s := range resp.Items {
					t.AddRow(s.ScanID, strconv.Itoa(s.Year), strconv.Itoa(s.Month), ptrInt(s.WeekIndex), shortTime(s.ScanDate))
				}
				t.Flush()
			}
			return nil
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary SCAN_ID",
		Short: "Show headline counts for one weekly scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := mustClient()
			data, err := client.Get("/api/v1/weekly-dhs/" + url.PathEscape(args[0]) + "/summary")
			if err != nil {
				return err
			}

			var resp ScanSummaryResponse
			if err := unmarshal(data, &resp); err != nil {
				return err
			}

			switch flagOutput {
			case outputJSON:
				printJSON(resp)
			case outputYAML:
				printYAML(resp)
			default:
				fmt.Printf("Scan %s (%d-%02d week %s)\n", resp.Scan.ScanID, resp.Scan.Year, resp.Scan.Month, ptrInt(resp.Scan.WeekIndex))
				if resp.Summary == nil {
					fmt.Println("  No observations.")
					return nil
				}
				fmt.Printf("  Observations:         %d\n", resp.Summary.TotalObservations)
				fmt.Printf("  Critical:             %d\n", resp.Summary.Critical)
				fmt.Printf("  High:                 %d\n", resp.Summary.High)
				fmt.Printf("  Hosts:                %d\n", resp.Summary.HostCount)
				fmt.Printf("  Vulnerabilities:      %d\n", resp.Summary.VulnCount)
				fmt.Printf("  Known exploited:      %d\n", resp.Summary.KnownExploitedCount)
				fmt.Printf("  Ransomware exploited: %d\n", resp.Summary.RansomwareExploitedCount)
			}
			return nil
		},
	}

	findingsCmd := &cobra.Command{
		Use:   "findings SCAN_ID",
		Short: "List findings for one weekly scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minSeverity, _ := cmd.Flags().GetInt("min-severity")
			search, _ := cmd.Flags().GetString("search")
			offset, _ := cmd.Flags().GetInt("offset")
			limit, _ := cmd.Flags().GetInt("limit")

			query := url.Values{}
			if cmd.Flags().Changed("min-severity") {
				query.Set("min_severity", strconv.Itoa(minSeverity))
			}
			if search != "" {
				query.Set("search", search)
			}
			query.Set("offset", strconv.Itoa(offset))
			query.Set("limit", strconv.Itoa(limit))

			client := mustClient()
			path := "/api/v1/weekly-dhs/" + url.PathEscape(args[0]) + "/findings?" + query.Encode()
			data, err := client.Get(path)
			if err != nil {
				return err
			}

			var resp FindingListResponse
			if err := unmarshal(data, &resp); err != nil {
				return err
			}

			switch flagOutput {
			case outputJSON:
				printJSON(resp)
			case outputYAML:
				printYAML(resp)
			default:
				if len(resp.Data) == 0 {
					fmt.Println("No findings found.")
					return nil
				}
				t := newTable("IP", "HOSTNAME", "SEV", "CVSS", "VULNERABILITY", "LAST SEEN")
				for _, f := range resp.Data {
					t.AddRow(
						f.IP,
						ptrStr(f.Hostname),
						strconv.Itoa(f.Severity),
						ptrFloat(f.CVSS),
						truncate(ptrStr(f.VulnName), 48),
						shortTime(f.LastSeen),
					)
				}
				t.Flush()
				fmt.Printf("\nShowing %d of %d findings (offset %d)\n", len(resp.Data), resp.Total, resp.Offset)
			}
			return nil
		},
	}
	findingsCmd.Flags().Int("min-severity", 0, "Minimum severity (0-5)")
	findingsCmd.Flags().String("search", "", "Match against host or vulnerability")
	findingsCmd.Flags().Int("offset", 0, "Result offset")
	findingsCmd.Flags().Int("limit", 50, "Page size")

	getCmd.AddCommand(scansCmd, summaryCmd, findingsCmd)
}
