package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFor(t *testing.T) {
	c := NewChecker()
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"darwin amd64", "darwin", "amd64", "jokicbt_Darwin_all.tar.gz", false},
		{"darwin arm64", "darwin", "arm64", "jokicbt_Darwin_all.tar.gz", false},
		{"linux amd64", "linux", "amd64", "jokicbt_Linux_x86_64.tar.gz", false},
		{"linux arm64", "linux", "arm64", "jokicbt_Linux_arm64.tar.gz", false},
		{"linux 386", "linux", "386", "jokicbt_Linux_i386.tar.gz", false},
		{"windows amd64", "windows", "amd64", "jokicbt_Windows_x86_64.zip", false},
		{"unsupported os", "freebsd", "amd64", "", true},
		{"unsupported arch", "linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.assetFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	got := parseChecksums([]byte("abc123  a.tar.gz\nbadline\n  \nfoo  bar  baz\ndef456  b.zip\n"))
	assert.Equal(t, map[string]string{"a.tar.gz": "abc123", "b.zip": "def456"}, got)
	assert.Empty(t, parseChecksums(nil))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	h := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(h[:])))
	assert.ErrorIs(t, verifyChecksum(data, "00"), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	content := []byte("#!/bin/sh\necho jokicbt")

	t.Run("tar.gz", func(t *testing.T) {
		got, err := extractBinary(buildTarGz(t, "dist/jokicbt", content), "jokicbt_Linux_x86_64.tar.gz", "jokicbt")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("zip", func(t *testing.T) {
		got, err := extractBinary(buildZip(t, "jokicbt.exe", content), "jokicbt_Windows_x86_64.zip", "jokicbt.exe")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := extractBinary(buildTarGz(t, "README.md", content), "jokicbt_Linux_x86_64.tar.gz", "jokicbt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestReplaceBinary(t *testing.T) {
	target := filepath.Join(t.TempDir(), "jokicbt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	bin := []byte("new-binary")
	h := sha256.Sum256(bin)
	require.NoError(t, NewChecker().replaceBinary(bin, target, h[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/Arizalb/jokicbt/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"v1.2.0","html_url":"https://example.com/v1.2.0"}`))
	}))
	defer server.Close()

	c := NewChecker(WithBaseURL(server.URL))
	tests := []struct {
		current   string
		available bool
	}{
		{"v1.0.0", true},
		{"1.1.9", true},
		{"v1.2.0", false},
		{"v1.3.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			res, err := c.Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.available, res.UpdateAvailable)
			assert.Equal(t, "v1.2.0", res.LatestVersion)
			assert.Equal(t, "https://example.com/v1.2.0", res.ReleaseURL)
		})
	}

	_, err := c.Check(context.Background(), &CheckInput{Version: "not-a-version"})
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestUpdate(t *testing.T) {
	content := []byte("new-jokicbt-binary")
	archive := buildTarGz(t, "jokicbt", content)
	sum := sha256.Sum256(archive)
	archiveHex := hex.EncodeToString(sum[:])

	asset, err := NewChecker().assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil || filepath.Ext(asset) == ".zip" {
		t.Skip("test archives are tar.gz only")
	}

	releaseServer := func(checksum string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/repos/Arizalb/jokicbt/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			case "/Arizalb/jokicbt/releases/download/v2.0.0/" + asset:
				_, _ = w.Write(archive)
			case "/Arizalb/jokicbt/releases/download/v2.0.0/checksums.txt":
				if checksum == "" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				_, _ = fmt.Fprintf(w, "%s  %s\n", checksum, asset)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
	}

	t.Run("happy path", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "jokicbt")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))

		server := releaseServer(archiveHex)
		defer server.Close()

		c := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []string
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: DevVersion}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := releaseServer(archiveHex)
		defer server.Close()

		err := NewChecker(WithBaseURL(server.URL)).Update(context.Background(), &UpdateInput{CurrentVersion: "v2.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		server := releaseServer("0000000000000000000000000000000000000000000000000000000000000000")
		defer server.Close()

		c := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("checksums missing", func(t *testing.T) {
		server := releaseServer("")
		defer server.Close()

		c := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download checksums")
	})
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

// buildZip creates a zip archive containing a single file.
func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
