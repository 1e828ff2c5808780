package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	var registry bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, done := defaultEnv()
			defer done()
			cookie, err := e.creds.Resolve(registry)
			if err != nil {
				return err
			}
			info, err := newClient(cookie, 0).MyUserInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get logged in user info because: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "You are logged in as %s (%d)\n", info.Username, info.UserID)
			fmt.Fprintf(out, "Robux:   %d\n", info.Robux)
			fmt.Fprintf(out, "Premium: %t\n", info.IsPremium)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&registry, "registry", "r", false, "Log in with Roblox Studio's cookie from the registry (Windows)")
	return cmd
}

func newGroupsCmd() *cobra.Command {
	var registry bool

	cmd := &cobra.Command{
		Use:   "groups [group-id]",
		Short: "List your groups, or show one group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, done := defaultEnv()
			defer done()
			cookie, err := e.creds.Resolve(registry)
			if err != nil {
				return err
			}
			client := newClient(cookie, 0)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid group id %q", args[0])
				}
				info, err := client.GroupInfo(cmd.Context(), id)
				if err != nil {
					return err
				}
				writeGroupInfo(out, info.Name, info.GroupID, info.Description)
				if info.Owner != nil {
					fmt.Fprintf(out, "Owner: %s (%d)\n", info.Owner.Username, info.Owner.UserID)
				}
				for _, r := range info.Roles {
					fmt.Fprintf(out, "  %3d  %s\n", r.Rank, r.Name)
				}
				return nil
			}

			user, err := client.MyUserInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get logged in user info because: %w", err)
			}
			groups, err := client.UserGroups(cmd.Context(), user.UserID)
			if err != nil {
				return fmt.Errorf("could not fetch groups for user because: %w", err)
			}
			if len(groups) == 0 {
				fmt.Fprintln(out, "You are not in any groups")
				return nil
			}
			for _, g := range groups {
				marker := " "
				if g.IsPrimary {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %d  %s (%s, rank %d)\n", marker, g.GroupID, g.Name, g.Role, g.Rank)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&registry, "registry", "r", false, "Log in with Roblox Studio's cookie from the registry (Windows)")
	return cmd
}

func writeGroupInfo(w io.Writer, name string, id int64, description string) {
	fmt.Fprintf(w, "%s (%d)\n", name, id)
	if description != "" {
		fmt.Fprintf(w, "%s\n", description)
	}
}
