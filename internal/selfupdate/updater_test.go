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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"darwin", "amd64", "exphil_Darwin_all.tar.gz"},
		{"darwin", "arm64", "exphil_Darwin_all.tar.gz"},
		{"linux", "amd64", "exphil_Linux_x86_64.tar.gz"},
		{"linux", "arm64", "exphil_Linux_arm64.tar.gz"},
		{"linux", "386", "exphil_Linux_i386.tar.gz"},
		{"windows", "amd64", "exphil_Windows_x86_64.zip"},
		{"windows", "arm64", "exphil_Windows_arm64.zip"},
		{"freebsd", "amd64", ""},
		{"linux", "mips", ""},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.want == "" {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	assert.Empty(t, parseChecksums(nil))
	assert.NotNil(t, parseChecksums(nil))

	got := parseChecksums([]byte("abc123  exphil_Darwin_all.tar.gz\n" +
		"badline\n" +
		"  \n" +
		"foo  bar  baz\n" +
		"def456  exphil_Linux_x86_64.tar.gz"))
	assert.Equal(t, map[string]string{
		"exphil_Darwin_all.tar.gz":   "abc123",
		"exphil_Linux_x86_64.tar.gz": "def456",
	}, got)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))
	assert.ErrorIs(t, verifyChecksum(data, strings.Repeat("0", 64)), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	content := []byte("#!/bin/sh\necho exphil")

	tests := []struct {
		name    string
		archive []byte
		asset   string
		wantErr string
	}{
		{"tar.gz", buildTarGz(t, "exphil", content), "exphil_Linux_x86_64.tar.gz", ""},
		{"tar.gz in subdir", buildTarGz(t, "dist/exphil", content), "exphil_Darwin_all.tar.gz", ""},
		{"zip", buildZip(t, "exphil.exe", content), "exphil_Windows_x86_64.zip", ""},
		{"tar.gz missing", buildTarGz(t, "README.md", content), "exphil_Linux_x86_64.tar.gz", "not found"},
		{"zip missing", buildZip(t, "exphil", content), "exphil_Windows_arm64.zip", "not found"},
		{"not an archive", []byte("garbage"), "exphil_Linux_arm64.tar.gz", "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBinary(tt.archive, tt.asset)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, content, got)
		})
	}
}

func TestApplyUpdate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "exphil")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	data := []byte("new-binary-content")
	sum := sha256.Sum256(data)

	t.Run("hash mismatch leaves target", func(t *testing.T) {
		err := applyUpdate(data, target, make([]byte, sha256.Size))
		assert.ErrorIs(t, err, ErrChecksum)
		got, _ := os.ReadFile(target)
		assert.Equal(t, []byte("old"), got)
	})

	t.Run("replaces and keeps mode", func(t *testing.T) {
		require.NoError(t, applyUpdate(data, target, sum[:]))
		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, data, got)

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

		entries, err := os.ReadDir(filepath.Dir(target))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp files should be cleaned up")
	})
}

// releaseServer serves the latest-release API for tag and the given
// download files under /aginor/exphil/releases/download/<tag>/.
func releaseServer(t *testing.T, tag string, files map[string][]byte) *httptest.Server {
	t.Helper()
	prefix := "/aginor/exphil/releases/download/" + tag + "/"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/aginor/exphil/releases/latest" {
			_, _ = fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
			return
		}
		if body, ok := files[strings.TrimPrefix(r.URL.Path, prefix)]; ok && strings.HasPrefix(r.URL.Path, prefix) {
			_, _ = w.Write(body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpdate(t *testing.T) {
	asset, err := assetName()
	require.NoError(t, err)
	if strings.HasSuffix(asset, ".zip") {
		t.Skip("zip releases are covered by TestExtractBinary")
	}

	content := []byte("new-exphil-binary")
	archive := buildTarGz(t, "exphil", content)
	sum := sha256.Sum256(archive)
	goodSums := []byte(fmt.Sprintf("%x  %s\n", sum, asset))
	badSums := []byte(fmt.Sprintf("%s  %s\n", strings.Repeat("0", 64), asset))

	tests := []struct {
		name       string
		current    string
		tag        string
		files      map[string][]byte
		wantErr    error
		wantMsg    string
		wantStages []string
	}{
		{
			name:       "installs latest",
			current:    "v1.0.0",
			tag:        "v2.0.0",
			files:      map[string][]byte{asset: archive, checksumsFile: goodSums},
			wantStages: []string{"check", "download", "verify", "extract", "apply", "done"},
		},
		{
			name:    "development build",
			current: "(devel)",
			tag:     "v2.0.0",
			wantErr: ErrDevBuild,
		},
		{
			name:    "already latest",
			current: "v1.0.0",
			tag:     "v1.0.0",
			wantErr: ErrAlreadyLatest,
		},
		{
			name:    "checksum mismatch",
			current: "v1.0.0",
			tag:     "v2.0.0",
			files:   map[string][]byte{asset: archive, checksumsFile: badSums},
			wantErr: ErrChecksum,
		},
		{
			name:    "asset missing from checksums",
			current: "v1.0.0",
			tag:     "v2.0.0",
			files:   map[string][]byte{asset: archive, checksumsFile: []byte("abc  other.tar.gz\n")},
			wantMsg: "no checksum found",
		},
		{
			name:    "archive missing",
			current: "v1.0.0",
			tag:     "v2.0.0",
			wantMsg: "download archive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execPath := filepath.Join(t.TempDir(), "exphil")
			require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))

			server := releaseServer(t, tt.tag, tt.files)
			checker := NewChecker(
				WithBaseURL(server.URL),
				WithDownloadBaseURL(server.URL),
				withExecPath(func() (string, error) { return execPath, nil }),
			)

			var stages []string
			err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: tt.current}, func(p UpdateProgress) {
				stages = append(stages, p.Stage)
			})

			got, _ := os.ReadFile(execPath)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, []byte("old"), got)
			case tt.wantMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
				assert.Equal(t, []byte("old"), got)
			default:
				require.NoError(t, err)
				assert.Equal(t, content, got)
				assert.Equal(t, tt.wantStages, stages)
			}
		})
	}
}

func TestUpdate_PinnedVersionSkipsCheck(t *testing.T) {
	asset, err := assetName()
	require.NoError(t, err)
	if strings.HasSuffix(asset, ".zip") {
		t.Skip("zip releases are covered by TestExtractBinary")
	}
	archive := buildTarGz(t, "exphil", []byte("pinned"))
	sum := sha256.Sum256(archive)

	execPath := filepath.Join(t.TempDir(), "exphil")
	require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
	server := releaseServer(t, "v1.5.0", map[string][]byte{
		asset:         archive,
		checksumsFile: []byte(fmt.Sprintf("%x  %s\n", sum, asset)),
	})

	var stages []string
	err = NewChecker(
		WithDownloadBaseURL(server.URL),
		withExecPath(func() (string, error) { return execPath, nil }),
	).Update(context.Background(), &UpdateInput{CurrentVersion: "v2.0.0", TargetVersion: "v1.5.0"}, func(p UpdateProgress) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)
	assert.NotContains(t, stages, "check")
}

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

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		current   string
		available bool
	}{
		{"newer patch", "v0.3.1", "v0.3.0", true},
		{"newer minor without v", "0.4.0", "v0.3.9", true},
		{"same", "v0.3.0", "0.3.0", false},
		{"older", "v0.2.0", "v0.3.0", false},
		{"devel never updates", "v0.3.0", "(devel)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/aginor/exphil/releases/latest", r.URL.Path)
				_, _ = fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/r"}`, tt.tag)
			}))
			defer server.Close()

			res, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.tag, res.LatestVersion)
			assert.Equal(t, "https://example.com/r", res.ReleaseURL)
			assert.Equal(t, tt.available, res.UpdateAvailable)
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	bodies := map[string]string{
		"invalid json": `{"tag_name":`,
		"missing tag":  `{"html_url":"x"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
			assert.Error(t, err)
		})
	}

	t.Run("status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := NewChecker(WithBaseURL(server.URL), WithRepo("someone", "else")).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 403")
	})
}
