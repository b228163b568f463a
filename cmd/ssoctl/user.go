package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/service"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/aussiebroadwan/bartab-sso/pkg/cryptox"
	"github.com/spf13/cobra"
)

// NewUserCmd creates the user command group.
func NewUserCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Add, remove and list users",
	}

	cmd.AddCommand(newUserAddCmd(flags))
	cmd.AddCommand(newUserRemoveCmd(flags))
	cmd.AddCommand(newUserListCmd(flags))

	return cmd
}

func newUserAddCmd(flags *storeFlags) *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user or replace their password",
		Long: `Create a user or replace their password. The password is read from the
first line of standard input unless --generate is given, in which case a random
password is created and printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), generate)
			if err != nil {
				return err
			}

			cfg, st, err := flags.open()
			if err != nil {
				return err
			}
			defer st.Close()

			creds := service.NewCredentialService(st, cfg.HashWorkers, nil)
			if err := creds.SetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}

			if generate {
				fmt.Fprintf(cmd.OutOrStdout(), "user %s saved, password: %s\n", args[0], password)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s saved\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random password")
	return cmd
}

func newUserRemoveCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <username>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := flags.open()
			if err != nil {
				return err
			}
			defer st.Close()

			creds := service.NewCredentialService(st, cfg.HashWorkers, nil)
			if err := creds.RemoveUser(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("user %s does not exist", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s removed\n", args[0])
			return nil
		},
	}
}

func newUserListCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List usernames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := flags.open()
			if err != nil {
				return err
			}
			defer st.Close()

			creds := service.NewCredentialService(st, cfg.HashWorkers, nil)
			names, err := creds.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func readPassword(in io.Reader, generate bool) (string, error) {
	if generate {
		return cryptox.GeneratePassword()
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("no password on standard input (use --generate for a random one)")
	}
	return password, nil
}
