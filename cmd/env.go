package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arizalb/jokicbt/internal/cbtapi"
	"github.com/Arizalb/jokicbt/internal/config"
	"github.com/Arizalb/jokicbt/internal/credentials"
	"github.com/Arizalb/jokicbt/internal/store"
)

// env is what every command needs: resolved config, the open store and the
// merged credentials.
type env struct {
	cfg   config.Config
	store *store.Store
	creds credentials.Credentials
}

// openEnv loads config, opens the store and merges credentials with
// precedence flags > environment > saved.
func openEnv(cmd *cobra.Command) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if u, _ := cmd.Flags().GetString("base-url"); u != "" {
		cfg.BaseURL = u
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	saved, err := savedCredentials(cmd.Context(), st.CredentialRepo())
	if err != nil {
		st.Close()
		return nil, err
	}

	return &env{
		cfg:   cfg,
		store: st,
		creds: credentials.Merge(flagCredentials(cmd), credentials.FromEnv(), saved),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// api returns the remote client wrapped with request logging.
func (e *env) api() cbtapi.API {
	client := cbtapi.New(e.cfg.BaseURL, cbtapi.WithTimeout(e.cfg.Timeout))
	return cbtapi.WithLogging(client, e.store.EventRepo())
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or JOKICBT_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func flagCredentials(cmd *cobra.Command) credentials.Credentials {
	token, _ := cmd.Flags().GetString("token")
	code, _ := cmd.Flags().GetString("code")
	userID, _ := cmd.Flags().GetString("user-id")
	return credentials.Credentials{Token: token, Code: code, UserID: userID}
}

func savedCredentials(ctx context.Context, repo store.CredentialRepo) (credentials.Credentials, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var c credentials.Credentials
	for key, dst := range map[string]*string{
		store.KeyToken:  &c.Token,
		store.KeyCode:   &c.Code,
		store.KeyUserID: &c.UserID,
	} {
		v, err := repo.Get(ctx, key)
		if err != nil {
			return c, fmt.Errorf("read saved credentials: %w", err)
		}
		*dst = v
	}
	return c, nil
}
