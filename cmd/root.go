package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "rbxupload",
		Short: "Upload images to Roblox as decals",
		Long: `rbxupload uploads image files to Roblox as decals and prints the asset id of each one.

Logging in:
  - Set ROBLOX_COOKIE to your .ROBLOSECURITY cookie (a .env file works too)
  - Or use -r/--registry on Windows to reuse Roblox Studio's cookie
  The registry takes priority over ROBLOX_COOKIE.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(cmd.ErrOrStderr(), verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newGroupsCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newReportCmd())

	return cmd
}
