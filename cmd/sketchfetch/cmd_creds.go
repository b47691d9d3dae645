package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/user/sketchfetch/internal/creds"
)

func init() {
	rootCmd.AddCommand(credsCmd)
	credsCmd.AddCommand(credsEncryptCmd, credsShowCmd)

	credsEncryptCmd.Flags().String("endpoint", "", "backend URL (required)")
	credsEncryptCmd.Flags().String("username", "", "backend username (required)")
	credsEncryptCmd.Flags().String("token", "", "session token to store (required)")
	credsEncryptCmd.Flags().String("passphrase", "", "encryption passphrase (prompted when omitted)")
	_ = credsEncryptCmd.MarkFlagRequired("endpoint")
	_ = credsEncryptCmd.MarkFlagRequired("username")
	_ = credsEncryptCmd.MarkFlagRequired("token")

	credsShowCmd.Flags().String("passphrase", "", "decryption passphrase (prompted when omitted)")
}

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage stored backend credentials",
}

var credsEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Write an encrypted token file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		endpoint, _ := cmd.Flags().GetString("endpoint")
		username, _ := cmd.Flags().GetString("username")
		token, _ := cmd.Flags().GetString("token")

		passphrase, err := passphraseFromFlagOrPrompt(cmd)
		if err != nil {
			return err
		}

		path := cfg.TokenPath()
		err = creds.WriteTokenFile(path, passphrase, creds.Credentials{
			Endpoint: endpoint,
			Username: username,
			Token:    token,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Encrypted credentials written to %s\n", path)
		return nil
	},
}

var credsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the identity stored in the token file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		passphrase, err := passphraseFromFlagOrPrompt(cmd)
		if err != nil {
			return err
		}

		stored, err := creds.ReadTokenFile(cfg.TokenPath(), passphrase)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "endpoint: %s\nusername: %s\n", stored.Endpoint, stored.Username)
		return nil
	},
}

func passphraseFromFlagOrPrompt(cmd *cobra.Command) (string, error) {
	passphrase, _ := cmd.Flags().GetString("passphrase")
	if passphrase != "" {
		return passphrase, nil
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty passphrase")
	}
	return string(raw), nil
}
