package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func lookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query the condition, medicine and treatment basket catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "conditions [SEARCH]",
		Short: "List chronic conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			seen := map[string]bool{}
			for _, c := range store.ConditionsMatching(term) {
				if seen[c.Condition] {
					continue
				}
				seen[c.Condition] = true
				fmt.Fprintln(a.out, c.Condition)
			}
			return nil
		},
	})

	icd := &cobra.Command{
		Use:   "icd",
		Short: "List the ICD-10 codes of a condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, _ := cmd.Flags().GetString("condition")
			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			for _, c := range store.ICDCodesForCondition(condition) {
				fmt.Fprintf(a.out, "%-10s %s\n", c.ICDCode, c.ICDDescription)
			}
			return nil
		},
	}
	conditionFlag(icd)
	cmd.AddCommand(icd)

	meds := &cobra.Command{
		Use:   "medicines",
		Short: "List the medicines of a condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, _ := cmd.Flags().GetString("condition")
			class, _ := cmd.Flags().GetString("class")
			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			list := store.MedicinesForCondition(condition)
			if class != "" {
				list = store.MedicinesInClass(condition, class)
			}
			fmt.Fprintf(a.out, "%-32s %-24s %-20s %-10s %s\n", "MEDICINE", "INGREDIENT", "CLASS", "CDA CORE", "CDA EXEC")
			for _, m := range list {
				fmt.Fprintf(a.out, "%-32s %-24s %-20s %-10s %s\n",
					m.NameAndStrength, m.ActiveIngredient, m.MedicineClass, m.CDACore, m.CDAExecutive)
			}
			return nil
		},
	}
	conditionFlag(meds)
	meds.Flags().String("class", "", "Only list this medicine class")
	cmd.AddCommand(meds)

	classes := &cobra.Command{
		Use:   "classes",
		Short: "List the medicine classes of a condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, _ := cmd.Flags().GetString("condition")
			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			for _, c := range store.UniqueMedicineClasses(condition) {
				fmt.Fprintln(a.out, c)
			}
			return nil
		},
	}
	conditionFlag(classes)
	cmd.AddCommand(classes)

	basket := &cobra.Command{
		Use:   "basket",
		Short: "List the treatment basket of a condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			condition, _ := cmd.Flags().GetString("condition")
			diagnostic, _ := cmd.Flags().GetBool("diagnostic")
			store, err := a.loadLookup()
			if err != nil {
				return err
			}
			items := store.OngoingBasketForCondition(condition)
			if diagnostic {
				items = store.DiagnosticBasketForCondition(condition)
			}
			for _, it := range items {
				fmt.Fprintf(a.out, "%-10s %-48s %s\n", it.Code, it.Description, it.Covered)
			}
			return nil
		},
	}
	conditionFlag(basket)
	basket.Flags().Bool("diagnostic", false, "List the diagnostic basket instead of ongoing management")
	cmd.AddCommand(basket)

	return cmd
}

func conditionFlag(c *cobra.Command) {
	c.Flags().String("condition", "", "Chronic condition")
	_ = c.MarkFlagRequired("condition")
}
