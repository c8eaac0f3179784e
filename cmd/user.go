package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/user"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show or edit the local profile",
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		u, err := svc.users.Current(cmd.Context())
		if err != nil {
			return err
		}
		printUser(cmd, u)
		return nil
	},
}

var userSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		var p user.Patch
		if cmd.Flags().Changed("username") {
			v, _ := cmd.Flags().GetString("username")
			p.Username = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			p.Email = &v
		}
		if cmd.Flags().Changed("avatar") {
			v, _ := cmd.Flags().GetString("avatar")
			p.Avatar = &v
		}
		if p == (user.Patch{}) {
			return fmt.Errorf("nothing to update: pass --username, --email or --avatar")
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		u, err := svc.users.Update(cmd.Context(), p)
		if err != nil {
			return err
		}
		printUser(cmd, u)
		return nil
	},
}

func init() {
	userSetCmd.Flags().String("username", "", "Display name")
	userSetCmd.Flags().String("email", "", "Email address")
	userSetCmd.Flags().String("avatar", "", "Avatar URL")

	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSetCmd)
}

func printUser(cmd *cobra.Command, u user.User) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", u.ID)
	fmt.Fprintf(out, "Username:  %s\n", u.Username)
	if u.Email != "" {
		fmt.Fprintf(out, "Email:     %s\n", u.Email)
	}
	if u.Avatar != "" {
		fmt.Fprintf(out, "Avatar:    %s\n", u.Avatar)
	}
	fmt.Fprintf(out, "Created:   %s\n", u.CreatedAt)
}
