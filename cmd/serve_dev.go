package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Arizalb/jokicbt/internal/config"
	"github.com/Arizalb/jokicbt/internal/devserver"
)

var serveDevCmd = &cobra.Command{
	Use:   "serve-dev",
	Short: "Run a local stand-in for the test service",
	Long: `Serve questions from a YAML bank, issue HS256 tokens and grade submissions.

Log in against it with any username whose password equals the username, or
pass --issue <user> to print a ready-made token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dev := cfg.Dev
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			dev.Addr = v
		}
		if v, _ := cmd.Flags().GetString("bank"); v != "" {
			dev.BankPath = v
		}
		if v, _ := cmd.Flags().GetString("secret"); v != "" {
			dev.Secret = v
		}
		origins, _ := cmd.Flags().GetStringSlice("allow-origin")
		quiet, _ := cmd.Flags().GetBool("quiet")

		var bank devserver.Bank
		if dev.BankPath != "" {
			if bank, err = devserver.LoadBank(dev.BankPath); err != nil {
				return err
			}
		} else {
			bank = devserver.SampleBank()
		}

		srv := devserver.New(devserver.Options{
			Bank:           bank,
			Secret:         dev.Secret,
			TokenTTL:       dev.TokenTTL,
			AllowedOrigins: origins,
			Quiet:          quiet,
		})

		if user, _ := cmd.Flags().GetString("issue"); user != "" {
			tok, err := srv.Auth().IssueJWT(user, "")
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Printf("Token for %s:\n%s\n\n", user, tok)
		}

		fmt.Printf("Serving tests %s on http://%s\n", strings.Join(bank.Codes(), ", "), dev.Addr)
		fmt.Printf("Point the client at it with --base-url http://%s\n", dev.Addr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, &http.Server{
			Addr:              dev.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	},
}

func init() {
	serveDevCmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8787)")
	serveDevCmd.Flags().String("bank", "", "YAML question bank (default: built-in sample)")
	serveDevCmd.Flags().String("secret", "", "HS256 signing secret")
	serveDevCmd.Flags().String("issue", "", "Print a token for this user id at startup")
	serveDevCmd.Flags().StringSlice("allow-origin", nil, "CORS allowed origins (default any)")
	serveDevCmd.Flags().Bool("quiet", false, "Disable request logging")
}

// serve runs hs until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, hs *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Println("Stopped.")
	return nil
}
