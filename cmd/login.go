package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Arizalb/jokicbt/internal/cbtapi"
	"github.com/Arizalb/jokicbt/internal/credentials"
	"github.com/Arizalb/jokicbt/internal/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the bearer token",
	Long: `Sign in with a username and password, or save an existing token with --token.

The token, user id and (with --code) test code are stored in the local
database and used by later runs unless flags or JOKICBT_* variables override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		flags := flagCredentials(cmd)
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		var creds credentials.Credentials
		switch {
		case flags.Token != "":
			creds = flags
		case username != "":
			if password == "" {
				if password, err = prompt("Password: "); err != nil {
					return err
				}
			}
			client := cbtapi.New(e.cfg.BaseURL, cbtapi.WithTimeout(e.cfg.Timeout))
			res, err := client.Login(ctx, cbtapi.LoginRequest{Username: username, Password: password, Code: flags.Code})
			if err != nil {
				if errors.Is(err, cbtapi.ErrUnauthorized) {
					return fmt.Errorf("login rejected: check your username and password")
				}
				return fmt.Errorf("login: %w", err)
			}
			creds = credentials.Credentials{Token: res.Token, Code: flags.Code, UserID: flags.UserID}
			if creds.UserID == "" {
				creds.UserID = res.UserID
			}
		default:
			return fmt.Errorf("pass --username or --token")
		}

		if exp, ok := credentials.TokenExpiry(creds.Token); ok {
			if err := creds.Validate(); errors.Is(err, credentials.ErrTokenExpired) {
				return err
			}
			fmt.Printf("Token valid until %s\n", exp.Local().Format("2006-01-02 15:04"))
		}

		if err := saveCredentials(ctx, e.store.CredentialRepo(), creds); err != nil {
			return err
		}

		fmt.Printf("Saved token %s\n", creds.Redacted())
		if id, err := creds.ResolveUserID(); err == nil {
			fmt.Printf("User:  %s\n", id)
		} else {
			fmt.Fprintln(os.Stderr, "warning: no user id in token; pass --user-id before submitting tests")
		}
		if creds.Code != "" {
			fmt.Printf("Code:  %s\n", creds.Code)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved token and user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		keys := []string{store.KeyToken, store.KeyUserID}
		if all, _ := cmd.Flags().GetBool("all"); all {
			keys = append(keys, store.KeyCode)
		}
		if err := e.store.CredentialRepo().Delete(cmd.Context(), keys...); err != nil {
			return fmt.Errorf("delete credentials: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("username", "", "Account username")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	logoutCmd.Flags().Bool("all", false, "Also forget the saved test code")
}

// saveCredentials stores the non-empty fields of c.
func saveCredentials(ctx context.Context, repo store.CredentialRepo, c credentials.Credentials) error {
	for key, v := range map[string]string{
		store.KeyToken:  c.Token,
		store.KeyCode:   c.Code,
		store.KeyUserID: c.UserID,
	} {
		if v == "" {
			continue
		}
		if err := repo.Set(ctx, key, v); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
	}
	return nil
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
