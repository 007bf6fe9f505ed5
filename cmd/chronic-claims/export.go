package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/domain/report"
	"github.com/salulink/chronic/internal/platform/casefile"
)

var (
	errNoReport   = errors.New("case has no saved medication report")
	errNoReferral = errors.New("case has no saved referral")
)

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a case as a PDF, or a ZIP with its attachments",
	}

	addFlags := func(c *cobra.Command) *cobra.Command {
		c.Flags().String("case", "", "Path to the case file")
		c.Flags().Bool("attachments", false, "Bundle attachments into a ZIP archive")
		c.Flags().String("out", "", "Output directory (defaults to OUTPUT_DIR)")
		_ = c.MarkFlagRequired("case")
		return c
	}

	cmd.AddCommand(addFlags(&cobra.Command{
		Use:   "claim",
		Short: "Export the initial chronic treatment claim",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, opts, err := exportInputs(cmd)
			if err != nil {
				return err
			}
			art, err := a.exporter().ExportClaim(cmd.Context(), c, opts)
			if err != nil {
				return err
			}
			return a.writeArtifact(cmd, art)
		},
	}))

	cmd.AddCommand(addFlags(&cobra.Command{
		Use:   "ongoing",
		Short: "Export the ongoing management report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, opts, err := exportInputs(cmd)
			if err != nil {
				return err
			}
			art, err := a.exporter().ExportOngoing(cmd.Context(), c, opts)
			if err != nil {
				return err
			}
			return a.writeArtifact(cmd, art)
		},
	}))

	medCmd := addFlags(&cobra.Command{
		Use:   "medication-report",
		Short: "Export a saved medication report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, opts, err := exportInputs(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("report")
			r, err := pickReport(c, n)
			if err != nil {
				return err
			}
			art, err := a.exporter().ExportMedicationReport(cmd.Context(), c, r, opts)
			if err != nil {
				return err
			}
			return a.writeArtifact(cmd, art)
		},
	})
	medCmd.Flags().Int("report", 0, "1-based report number (defaults to the latest)")
	cmd.AddCommand(medCmd)

	refCmd := addFlags(&cobra.Command{
		Use:   "referral",
		Short: "Export a specialist referral",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, opts, err := exportInputs(cmd)
			if err != nil {
				return err
			}
			in, err := referralInput(cmd, c)
			if err != nil {
				return err
			}
			art, err := a.exporter().ExportReferral(cmd.Context(), c, in, opts)
			if err != nil {
				return err
			}
			return a.writeArtifact(cmd, art)
		},
	})
	refCmd.Flags().Int("referral", 0, "1-based saved referral number (defaults to the latest)")
	refCmd.Flags().String("specialist", "", "Specialist type for an unsaved referral")
	refCmd.Flags().String("urgency", string(claim.UrgencyRoutine), "routine, urgent or emergency")
	refCmd.Flags().String("note", "", "Referral motivation for an unsaved referral")
	cmd.AddCommand(refCmd)

	return cmd
}

func exportInputs(cmd *cobra.Command) (*claim.PatientCase, report.Options, error) {
	path, _ := cmd.Flags().GetString("case")
	withAttachments, _ := cmd.Flags().GetBool("attachments")
	c, err := casefile.Load(path)
	if err != nil {
		return nil, report.Options{}, err
	}
	return c, report.Options{WithAttachments: withAttachments}, nil
}

func pickReport(c *claim.PatientCase, n int) (claim.MedicationReport, error) {
	if len(c.MedicationReports) == 0 {
		return claim.MedicationReport{}, errNoReport
	}
	if n == 0 {
		r, _ := c.LatestMedicationReport()
		return r, nil
	}
	if n < 1 || n > len(c.MedicationReports) {
		return claim.MedicationReport{}, fmt.Errorf("report %d: %w", n, claim.ErrIndexOutOfRange)
	}
	return c.MedicationReports[n-1], nil
}

// referralInput uses the ad hoc flags when a specialist is given, and a saved
// referral otherwise.
func referralInput(cmd *cobra.Command, c *claim.PatientCase) (claim.ReferralInput, error) {
	specialist, _ := cmd.Flags().GetString("specialist")
	if specialist != "" {
		urgency, _ := cmd.Flags().GetString("urgency")
		note, _ := cmd.Flags().GetString("note")
		return claim.ReferralInput{SpecialistType: specialist, Urgency: claim.Urgency(urgency), Motivation: note}, nil
	}
	if len(c.Referrals) == 0 {
		return claim.ReferralInput{}, errNoReferral
	}
	n, _ := cmd.Flags().GetInt("referral")
	if n == 0 {
		n = len(c.Referrals)
	}
	if n < 1 || n > len(c.Referrals) {
		return claim.ReferralInput{}, fmt.Errorf("referral %d: %w", n, claim.ErrIndexOutOfRange)
	}
	return c.Referrals[n-1].Input(), nil
}

func (a *app) writeArtifact(cmd *cobra.Command, art *report.Artifact) error {
	dir, _ := cmd.Flags().GetString("out")
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, art.FileName)
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", art.FileName, err)
	}
	fmt.Fprintln(a.out, path)
	return nil
}
