package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nutrihealth/nutrikit/modules/clinical"
	"github.com/nutrihealth/nutrikit/pkg/session"
)

func newPatientsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage the patient roster (professionals only)",
	}

	// PreRunE rather than a persistent hook on the parent: cobra runs only
	// the nearest persistent hook, and the root's is the session rehydration.
	roleCheck := func(cmd *cobra.Command, args []string) error {
		return requireRole(a, session.RoleProfessional, session.RoleOrgOwner)
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the patients of your organization",
		PreRunE: roleCheck,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.clinical.FetchPatients(cmd.Context()); err != nil {
				return fmt.Errorf("%s", a.clinical.Err())
			}

			patients := a.clinical.Patients()
			if len(patients) == 0 {
				fmt.Println("No patients yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEMAIL\tSTATUS")
			for _, p := range patients {
				fmt.Fprintf(w, "%s %s\t%s\t%s\n", p.FirstName, p.LastName, p.Email, p.StatusLabel)
			}
			return w.Flush()
		},
	}

	var data clinical.NewPatient

	addCmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a clinical record",
		PreRunE: roleCheck,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data.FirstName == "" || data.LastName == "" {
				return fmt.Errorf("--first-name and --last-name are required")
			}

			if !a.clinical.AddPatient(cmd.Context(), data) {
				return fmt.Errorf("%s", a.clinical.Err())
			}

			fmt.Printf("Patient %s %s created.\n", data.FirstName, data.LastName)
			return nil
		},
	}

	addCmd.Flags().StringVar(&data.FirstName, "first-name", "", "patient first name")
	addCmd.Flags().StringVar(&data.LastName, "last-name", "", "patient last name")
	addCmd.Flags().StringVar(&data.Email, "email", "", "patient email (optional)")

	cmd.AddCommand(listCmd, addCmd)
	return cmd
}
