package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/domain/report"
	"github.com/salulink/chronic/internal/platform/casefile"
	"github.com/salulink/chronic/pkg/pagination"
)

func casesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "List the cases of a directory",
	}
	cmd.PersistentFlags().String("dir", ".", "Case directory")
	cmd.AddCommand(casesListCmd(a))
	cmd.AddCommand(casesXLSXCmd(a))
	return cmd
}

// loadCases reads every case in dir. Unreadable files are logged and skipped.
func (a *app) loadCases(dir string) ([]*claim.PatientCase, error) {
	cases, err := casefile.LoadDir(dir)
	if err != nil {
		if cases == nil {
			return nil, err
		}
		a.log.Warn().Err(err).Str("dir", dir).Msg("skipped unreadable case files")
	}
	return cases, nil
}

func casesListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search, sort and page through cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			term, _ := cmd.Flags().GetString("search")
			status, _ := cmd.Flags().GetString("status")
			sortBy, _ := cmd.Flags().GetString("sort")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			cases, err := a.loadCases(dir)
			if err != nil {
				return err
			}
			cases = claim.Filter(cases, claim.CaseQuery{Term: term, Status: claim.Status(status)})
			claim.Sort(cases, claim.ParseSortKey(sortBy))
			params := pagination.New(limit, offset)
			page := pagination.Slice(cases, params)

			fmt.Fprintf(a.out, "%-12s %-24s %-12s %-28s %-8s %s\n", "PATIENT", "NAME", "STATUS", "CONDITION", "ICD", "UPDATED")
			for _, c := range page.Items {
				fmt.Fprintf(a.out, "%-12s %-24s %-12s %-28s %-8s %s\n",
					c.PatientID, c.PatientName, c.Status, c.Condition, c.ICDCode,
					c.UpdatedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(a.out, "showing %d of %d", len(page.Items), page.Total)
			if params.HasPrevious() {
				fmt.Fprintf(a.out, " (prev: --offset %d)", params.PreviousOffset())
			}
			if page.HasMore {
				fmt.Fprintf(a.out, " (next: --offset %d)", params.NextOffset())
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
	cmd.Flags().String("search", "", "Match patient name, id, condition or ICD code")
	cmd.Flags().String("status", "", "diagnostic, ongoing or completed")
	cmd.Flags().String("sort", string(claim.SortByDate), "date, name or condition")
	cmd.Flags().Int("limit", pagination.DefaultLimit, "Page size")
	cmd.Flags().Int("offset", 0, "Number of cases to skip")
	return cmd
}

func casesXLSXCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the case list as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = filepath.Join(a.cfg.OutputDir, "cases.xlsx")
			}
			cases, err := a.loadCases(dir)
			if err != nil {
				return err
			}
			claim.Sort(cases, claim.SortByDate)
			data, err := report.CaseListWorkbook(cases)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing workbook: %w", err)
			}
			a.log.Info().Int("cases", len(cases)).Str("path", out).Msg("case list exported")
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Workbook path (defaults to OUTPUT_DIR/cases.xlsx)")
	return cmd
}
