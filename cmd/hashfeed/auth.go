package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hashfeed/pkg/auth"
	"hashfeed/pkg/feed"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage platform credentials",
	Long: `Manage stored platform credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read only)

Stored credentials only fill values the configuration leaves empty.`,
}

// setCmd represents the auth set command
var setCmd = &cobra.Command{
	Use:       "set <platform>",
	Short:     "Store credentials for a platform",
	Example:   `  hashfeed auth set twitter`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"instagram", "facebook", "twitter"},
	RunE:      runAuthSet,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Long:  `List stored credentials with secrets masked.`,
	Args:  cobra.NoArgs,
	RunE:  runAuthList,
}

// deleteCmd represents the auth delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <platform>",
	Short: "Remove stored credentials for a platform",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthDelete,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(setCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(deleteCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	platform, err := feed.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	out := cmd.OutOrStdout()
	auth.ShowCredentialGuide(out, platform)

	reader := bufio.NewReader(os.Stdin)
	labels := auth.FieldLabels(platform)
	var values [4]string
	for i, label := range labels {
		if label == "" {
			continue
		}
		fmt.Fprintf(out, "%s: ", label)
		// the first field is an identifier, the rest are secrets
		if i == 0 {
			values[i], err = readLine(reader)
		} else {
			values[i], err = readSecret(reader)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
	}

	creds := &auth.Credentials{
		Platform:          platform,
		ClientID:          values[0],
		ClientSecret:      values[1],
		AccessToken:       values[2],
		AccessTokenSecret: values[3],
	}
	if err := manager.Store(creds); err != nil {
		return err
	}

	fmt.Fprintln(out)
	printer(cmd).Success("Credentials stored for " + platform.String())
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	list, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}

	p := printer(cmd)
	if len(list) == 0 {
		p.Info("No stored credentials", "use 'hashfeed auth set <platform>' to add some")
		return nil
	}

	p.Highlight("Stored credentials")
	for _, creds := range list {
		s := auth.Sanitize(creds)
		labels := auth.FieldLabels(s.Platform)
		fmt.Fprintln(cmd.OutOrStdout())
		p.Info("Platform", s.Platform.String())
		for i, v := range []string{s.ClientID, s.ClientSecret, s.AccessToken, s.AccessTokenSecret} {
			if labels[i] == "" || v == "" {
				continue
			}
			p.Info("   "+strings.TrimSuffix(labels[i], " (optional)"), v)
		}
		p.Info("   Last Modified", s.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runAuthDelete(cmd *cobra.Command, args []string) error {
	platform, err := feed.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(platform); err != nil {
		return err
	}
	printer(cmd).Success("Credentials removed for " + platform.String())
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readSecret reads a value from stdin without echoing when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}
	return readLine(reader)
}
