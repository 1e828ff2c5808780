package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rbxupload/rbxupload/internal/credentials"
)

func newLoginCmd() *cobra.Command {
	var username string
	var envFile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username and password and print the cookie",
		Long: `Log in to Roblox with a username and password.

The .ROBLOSECURITY cookie is printed, or stored as ROBLOX_COOKIE in an env file with --env-file.
Accounts with two step verification cannot log in this way; copy the cookie from a browser instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, done := defaultEnv()
			defer done()
			return runLogin(cmd.Context(), cmd.OutOrStdout(), e, username, envFile)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Roblox username")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Write ROBLOX_COOKIE to this .env file")
	return cmd
}

func runLogin(ctx context.Context, out io.Writer, e env, username, envFile string) error {
	var err error
	if username == "" {
		if username, err = e.prompt.Ask("Username: "); err != nil {
			return err
		}
	}
	password, err := e.prompt.AskPassword("Password: ")
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	cookie, err := newClient("", 0).Login(ctx, username, password)
	if err != nil {
		return err
	}

	if envFile == "" {
		fmt.Fprintf(out, "%s=%s\n", credentials.EnvVar, cookie)
		return nil
	}
	values := map[string]string{}
	if _, err := os.Stat(envFile); err == nil {
		if values, err = godotenv.Read(envFile); err != nil {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}
	values[credentials.EnvVar] = cookie
	if err := godotenv.Write(values, envFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", envFile, err)
	}
	fmt.Fprintf(out, "Saved %s to %s\n", credentials.EnvVar, envFile)
	return nil
}
