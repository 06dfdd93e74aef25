package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrihealth/nutrikit/pkg/session"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			if !a.session.Login(cmd.Context(), email, password) {
				return fmt.Errorf("%s", a.session.Err())
			}

			if user := a.session.User(); user != nil {
				fmt.Printf("Logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
			} else {
				fmt.Println("Logged in.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout()
			a.nutrition.Reset()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newRegisterCommand(a *app) *cobra.Command {
	var data session.RegisterData
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if data.Email == "" || data.Password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			data.Role = session.Role(role)

			if !a.session.Register(cmd.Context(), data) {
				return fmt.Errorf("%s", a.session.Err())
			}

			fmt.Println("Account created.")
			if a.session.Status() != session.StatusAuthenticated {
				fmt.Println("Automatic login failed; run `nutrikit login`.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&data.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&data.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&data.Email, "email", "", "account email")
	cmd.Flags().StringVar(&data.Password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", string(session.RolePatient), "account role (PATIENT, PROFESSIONAL, ORG_OWNER)")
	cmd.Flags().StringVar(&data.Organization, "organization", "", "organization id (optional)")

	return cmd
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.session.Status() != session.StatusAuthenticated {
				fmt.Println("Not logged in.")
				return nil
			}

			user := a.session.User()
			if user == nil {
				fmt.Println("Logged in (profile not loaded).")
				return nil
			}

			fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
			fmt.Printf("Role: %s\n", user.Role)
			if user.Organization != "" {
				fmt.Printf("Organization: %s\n", user.Organization)
			}
			return nil
		},
	}
}
