package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/domain/lookup"
	"github.com/salulink/chronic/internal/platform/casefile"
)

func caseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Create and edit patient case files",
	}
	cmd.AddCommand(caseNewCmd(a))
	cmd.AddCommand(caseDiagnoseCmd(a))
	cmd.AddCommand(caseAddTreatmentCmd(a))
	cmd.AddCommand(caseStepCmd(a))
	cmd.AddCommand(caseNotesCmd(a))
	cmd.AddCommand(caseAttachCmd(a))
	cmd.AddCommand(caseRenameAttachmentCmd(a))
	cmd.AddCommand(caseRemoveAttachmentCmd(a))
	cmd.AddCommand(caseAddMedicationCmd(a))
	cmd.AddCommand(caseMedicationReportCmd(a))
	cmd.AddCommand(caseReferralCmd(a))
	cmd.AddCommand(caseStatusCmd(a))
	return cmd
}

func caseFlag(c *cobra.Command) {
	c.Flags().String("case", "", "Path to the case file")
	_ = c.MarkFlagRequired("case")
}

func entryFlags(c *cobra.Command) {
	caseFlag(c)
	c.Flags().String("basket", string(claim.BasketDiagnostic), "diagnostic or ongoing")
	c.Flags().Int("index", 1, "1-based treatment number within the basket")
}

// entry reads --case, --basket and --index, converting the index to 0-based.
func entry(cmd *cobra.Command) (path string, kind claim.BasketKind, idx int, err error) {
	path, _ = cmd.Flags().GetString("case")
	b, _ := cmd.Flags().GetString("basket")
	n, _ := cmd.Flags().GetInt("index")
	kind, err = parseBasket(b)
	return path, kind, n - 1, err
}

func caseNewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new case in the diagnostic stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			id, _ := cmd.Flags().GetString("patient-id")
			name, _ := cmd.Flags().GetString("name")
			planName, _ := cmd.Flags().GetString("plan")

			plan, err := claim.ParsePlan(planName)
			if err != nil {
				return err
			}
			c, err := claim.NewCase(id, name, plan, time.Now())
			if err != nil {
				return err
			}
			path := filepath.Join(dir, casefile.FileName(c))
			if err := casefile.Save(path, c); err != nil {
				return err
			}
			a.log.Info().Str("case_id", c.ID).Str("patient_id", c.PatientID).Msg("case created")
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
	cmd.Flags().String("dir", ".", "Case directory")
	cmd.Flags().String("patient-id", "", "Patient identifier")
	cmd.Flags().String("name", "", "Patient name")
	cmd.Flags().String("plan", string(claim.PlanCore), "Medical plan")
	return cmd
}

func caseDiagnoseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Set the condition, ICD-10 code and clinical note",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("case")
			condition, _ := cmd.Flags().GetString("condition")
			code, _ := cmd.Flags().GetString("icd")
			note, _ := cmd.Flags().GetString("note")

			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			row, ok := store.ICDCode(condition, code)
			if !ok {
				return fmt.Errorf("ICD-10 code %q is not listed for %q", code, condition)
			}
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				c.SetDiagnosis(row.Condition, row.ICDCode, row.ICDDescription)
				if cmd.Flags().Changed("note") {
					c.SetClinicalNote(note)
				}
				return nil
			})
			return err
		},
	}
	caseFlag(cmd)
	cmd.Flags().String("condition", "", "Chronic condition")
	cmd.Flags().String("icd", "", "ICD-10 code")
	cmd.Flags().String("note", "", "Clinical note")
	return cmd
}

func caseAddTreatmentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-treatment",
		Short: "Add a basket item for the case's condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("case")
			b, _ := cmd.Flags().GetString("basket")
			code, _ := cmd.Flags().GetString("code")
			desc, _ := cmd.Flags().GetString("description")
			kind, err := parseBasket(b)
			if err != nil {
				return err
			}
			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				item, ok := store.FindBasketItem(c.Condition, kind == claim.BasketDiagnostic, code, desc)
				if !ok {
					return fmt.Errorf("no %s basket item %q for %q", kind, code, c.Condition)
				}
				return c.AddTreatment(kind, claim.TreatmentFromBasket(item))
			})
			return err
		},
	}
	caseFlag(cmd)
	cmd.Flags().String("basket", string(claim.BasketDiagnostic), "diagnostic or ongoing")
	cmd.Flags().String("code", "", "Procedure code")
	cmd.Flags().String("description", "", "Procedure description, to disambiguate shared codes")
	return cmd
}

func caseStepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Change how many times a treatment was completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, kind, idx, err := entry(cmd)
			if err != nil {
				return err
			}
			delta, _ := cmd.Flags().GetInt("delta")
			set, _ := cmd.Flags().GetInt("set")
			var got int
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				var err error
				if cmd.Flags().Changed("set") {
					got, err = c.SetTimesCompleted(kind, idx, set)
				} else {
					got, err = c.StepTimesCompleted(kind, idx, delta)
				}
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, got)
			return nil
		},
	}
	entryFlags(cmd)
	cmd.Flags().Int("delta", 1, "Amount to add, may be negative")
	cmd.Flags().Int("set", 0, "Absolute value to store")
	return cmd
}

func caseNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Replace the documentation notes of a treatment",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, kind, idx, err := entry(cmd)
			if err != nil {
				return err
			}
			text, _ := cmd.Flags().GetString("text")
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				return c.SetTreatmentNotes(kind, idx, text)
			})
			return err
		},
	}
	entryFlags(cmd)
	cmd.Flags().String("text", "", "Notes")
	return cmd
}

func caseAttachCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach FILE...",
		Short: "Attach files to a treatment's documentation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, kind, idx, err := entry(cmd)
			if err != nil {
				return err
			}
			refs, err := a.readAttachments(cmd.Context(), args)
			if err != nil {
				return err
			}
			var added int
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				var err error
				added, err = c.AttachFiles(kind, idx, a.cfg.MaxAttachments, refs...)
				if added == 0 {
					return err
				}
				if err != nil {
					a.log.Warn().Err(err).Int("added", added).Int("requested", len(refs)).Msg("some files were not attached")
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "attached %d file(s)\n", added)
			return nil
		},
	}
	entryFlags(cmd)
	return cmd
}

func caseRenameAttachmentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename-attachment",
		Short: "Rename an attached file, keeping its extension",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, kind, idx, err := entry(cmd)
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetInt("file")
			name, _ := cmd.Flags().GetString("name")
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				return c.RenameAttachment(kind, idx, file-1, name)
			})
			return err
		},
	}
	entryFlags(cmd)
	cmd.Flags().Int("file", 1, "1-based attachment number")
	cmd.Flags().String("name", "", "New base name")
	return cmd
}

func caseRemoveAttachmentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-attachment",
		Short: "Remove an attached file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, kind, idx, err := entry(cmd)
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetInt("file")
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				return c.RemoveAttachment(kind, idx, file-1)
			})
			return err
		},
	}
	entryFlags(cmd)
	cmd.Flags().Int("file", 1, "1-based attachment number")
	return cmd
}

func caseAddMedicationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-medication",
		Short: "Select a medicine for the case's condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("case")
			name, _ := cmd.Flags().GetString("medicine")
			note, _ := cmd.Flags().GetString("note")
			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				m, ok := store.MedicineByName(c.Condition, name)
				if !ok {
					return fmt.Errorf("medicine %q is not listed for %q", name, c.Condition)
				}
				if err := c.AddMedication(m); err != nil {
					return err
				}
				if note != "" {
					return c.SetMedicationNote(len(c.Medications)-1, note)
				}
				return nil
			})
			return err
		},
	}
	caseFlag(cmd)
	cmd.Flags().String("medicine", "", "Medicine name and strength")
	cmd.Flags().String("note", "", "Note for this medication")
	return cmd
}

func caseMedicationReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medication-report [FILE...]",
		Short: "Save a follow-up medication report",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("case")
			notes, _ := cmd.Flags().GetString("notes")
			names, _ := cmd.Flags().GetStringSlice("medicine")
			motivation, _ := cmd.Flags().GetString("motivation")
			docNotes, _ := cmd.Flags().GetString("doc-notes")

			refs, err := a.readAttachments(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(refs) > a.cfg.MaxAttachments {
				return fmt.Errorf("%w: maximum %d files allowed", claim.ErrTooManyAttachments, a.cfg.MaxAttachments)
			}
			var store *lookup.Store
			if len(names) > 0 {
				if store, err = a.loadLookup(); err != nil {
					return err
				}
			}
			var saved claim.MedicationReport
			_, err = a.updateCase(path, func(c *claim.PatientCase) error {
				var meds []claim.Medication
				for _, name := range names {
					m, ok := store.MedicineByName(c.Condition, name)
					if !ok {
						return fmt.Errorf("medicine %q is not listed for %q", name, c.Condition)
					}
					med, err := claim.MedicationFromCatalog(c.Plan, m)
					if err != nil {
						return err
					}
					if meds, err = claim.SelectMedication(meds, med, c.Medications); err != nil {
						return err
					}
				}
				var err error
				saved, err = c.SaveMedicationReport(claim.MedicationReportInput{
					FollowUpNotes:  notes,
					NewMedications: meds,
					Motivation:     motivation,
					Documentation:  &claim.Documentation{Notes: docNotes, Attachments: refs},
				}, time.Now())
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, saved.ID)
			return nil
		},
	}
	caseFlag(cmd)
	cmd.Flags().String("notes", "", "Follow-up notes")
	cmd.Flags().StringSlice("medicine", nil, "New medicine name and strength (repeatable)")
	cmd.Flags().String("motivation", "", "Motivation for the medication change")
	cmd.Flags().String("doc-notes", "", "Notes for the attached documentation")
	return cmd
}

func caseReferralCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referral",
		Short: "Save a specialist referral",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("case")
			specialist, _ := cmd.Flags().GetString("specialist")
			urgency, _ := cmd.Flags().GetString("urgency")
			note, _ := cmd.Flags().GetString("note")
			var r claim.Referral
			_, err := a.updateCase(path, func(c *claim.PatientCase) error {
				var err error
				r, err = c.AddReferral(claim.ReferralInput{
					SpecialistType: specialist,
					Urgency:        claim.Urgency(urgency),
					Motivation:     note,
				}, time.Now())
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, r.ID)
			return nil
		},
	}
	caseFlag(cmd)
	cmd.Flags().String("specialist", "", "Specialist type")
	cmd.Flags().String("urgency", string(claim.UrgencyRoutine), "routine, urgent or emergency")
	cmd.Flags().String("note", "", "Referral motivation")
	return cmd
}

func caseStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Move the case to another stage or plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("case")
			status, _ := cmd.Flags().GetString("set")
			planName, _ := cmd.Flags().GetString("plan")
			c, err := a.updateCase(path, func(c *claim.PatientCase) error {
				if status != "" {
					if err := c.SetStatus(claim.Status(status)); err != nil {
						return err
					}
				}
				if planName != "" {
					plan, err := claim.ParsePlan(planName)
					if err != nil {
						return err
					}
					return c.SetPlan(plan)
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\t%s\n", c.Status, c.Plan)
			return nil
		},
	}
	caseFlag(cmd)
	cmd.Flags().String("set", "", "diagnostic, ongoing or completed")
	cmd.Flags().String("plan", "", "Medical plan")
	return cmd
}
