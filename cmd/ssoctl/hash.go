package main

import (
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/bartab-sso/pkg/cryptox"
	"github.com/spf13/cobra"
)

// NewHashCmd prints a credential record for a password without touching a
// store, for hand-edited secrets files.
func NewHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Hash a password read from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), false)
			if err != nil {
				return err
			}

			record, err := cryptox.HashPassword(password)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		},
	}
}

// NewSecretCmd prints a random token signing secret.
func NewSecretCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a token signing secret for the settings document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := cryptox.GenerateToken(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "bytes", cryptox.TokenSize512, "random bytes before encoding")
	return cmd
}
