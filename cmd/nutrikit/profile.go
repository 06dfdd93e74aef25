package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrihealth/nutrikit/pkg/session"
)

func newProfileCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the account profile",
	}

	var update session.ProfileUpdate

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if update == (session.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update")
			}

			if !a.session.UpdateProfile(cmd.Context(), update) {
				if msg := a.session.Err(); msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return fmt.Errorf("not logged in")
			}

			user := a.session.User()
			fmt.Printf("Profile updated: %s %s\n", user.FirstName, user.LastName)
			return nil
		},
	}

	updateCmd.Flags().StringVar(&update.FirstName, "first-name", "", "new first name")
	updateCmd.Flags().StringVar(&update.LastName, "last-name", "", "new last name")
	updateCmd.Flags().StringVar(&update.Photo, "photo", "", "new photo URL")

	cmd.AddCommand(updateCmd)
	return cmd
}
