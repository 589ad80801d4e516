package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arizalb/jokicbt/internal/credentials"
	"github.com/Arizalb/jokicbt/internal/store"
)

func TestSaveAndLoadCredentials(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	repo := st.CredentialRepo()

	require.NoError(t, saveCredentials(ctx, repo, credentials.Credentials{Token: "tok", Code: "MTK01"}))
	got, err := savedCredentials(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, credentials.Credentials{Token: "tok", Code: "MTK01"}, got)

	// Empty fields leave saved values alone.
	require.NoError(t, saveCredentials(ctx, repo, credentials.Credentials{UserID: "u-1"}))
	got, err = savedCredentials(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, credentials.Credentials{Token: "tok", Code: "MTK01", UserID: "u-1"}, got)
}

func TestFlagsOverrideSavedCredentials(t *testing.T) {
	t.Setenv(credentials.EnvToken, "")
	t.Setenv(credentials.EnvCode, "ENV01")
	t.Setenv(credentials.EnvUserID, "")

	cmd := &cobra.Command{Use: "test"}
	for _, name := range []string{"token", "code", "user-id"} {
		cmd.Flags().String(name, "", "")
	}
	require.NoError(t, cmd.Flags().Set("token", "flag-token"))

	saved := credentials.Credentials{Token: "saved-token", Code: "SAVED", UserID: "saved-user"}
	got := credentials.Merge(flagCredentials(cmd), credentials.FromEnv(), saved)

	assert.Equal(t, "flag-token", got.Token)
	assert.Equal(t, "ENV01", got.Code)
	assert.Equal(t, "saved-user", got.UserID)
}

func TestSummarizeRequests(t *testing.T) {
	events := []store.RequestEvent{
		{RequestEventData: store.RequestEventData{Method: "GET", Path: "/api/questions/A", LatencyMs: 100, Success: true}},
		{RequestEventData: store.RequestEventData{Method: "GET", Path: "/api/questions/A", LatencyMs: 300, Success: false}},
		{RequestEventData: store.RequestEventData{Method: "POST", Path: "/api/results/submit-answer", LatencyMs: 50, Success: true}},
	}

	got := summarizeRequests(events)
	require.Len(t, got, 2)
	assert.Equal(t, endpointStats{Method: "GET", Path: "/api/questions/A", Calls: 2, Failures: 1, AvgLatencyMs: 200}, got[0])
	assert.Equal(t, endpointStats{Method: "POST", Path: "/api/results/submit-answer", Calls: 1, AvgLatencyMs: 50}, got[1])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
