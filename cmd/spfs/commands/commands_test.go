package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/sprest/internal/auth"
	"github.com/fivetwenty-io/sprest/internal/constants"
	"github.com/fivetwenty-io/sprest/pkg/sp"
)

// runCommand executes cmd with args and returns everything written to stdout and stderr.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

// useSite points the global configuration at siteURL for one test.
func useSite(t *testing.T, siteURL string) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(keySiteURL, siteURL)
	viper.Set(keyToken, "test-token")
	viper.Set(keyClientTag, "spfs")
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	props, err := parseAssignments([]string{"Name=Reports", "Hidden=true", "Order=3", "Note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"Name":   "Reports",
		"Hidden": true,
		"Order":  3,
		"Note":   "a=b",
	}, props)

	_, err = parseAssignments([]string{"broken"})
	require.ErrorIs(t, err, constants.ErrPropertyFormat)

	_, err = parseAssignments([]string{"=value"})
	require.ErrorIs(t, err, constants.ErrPropertyFormat)
}

func TestKeyValues(t *testing.T) {
	t.Parallel()

	args := keyValues(map[string]interface{}{"url": "u", "method": "GET", "status_code": 200})
	assert.Equal(t, []interface{}{"method", "GET", "status_code", 200, "url", "u"}, args)
}

func TestMaskToken(t *testing.T) {
	t.Parallel()

	assert.Empty(t, maskToken(""))
	assert.Equal(t, constants.MaskedSecret, maskToken("abc"))
	assert.Equal(t, "eyJ0"+constants.MaskedSecret, maskToken("eyJ0eXAiOiJKV1Qi"))
}

func TestFilterByName(t *testing.T) {
	t.Parallel()

	folders := []sp.FolderInfo{{Name: "2023"}, {Name: "2024"}, {Name: "Archive"}}
	name := func(f sp.FolderInfo) string { return f.Name }

	assert.Len(t, filterByName(folders, "", name), 3)
	assert.Equal(t, []sp.FolderInfo{{Name: "2023"}, {Name: "2024"}}, filterByName(folders, "202[0-9]", name))
	assert.Empty(t, filterByName(folders, "*.txt", name))
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/sites/dev/Docs/a", joinPath("/sites/dev/Docs/", "a"))
	assert.Equal(t, "/a", joinPath("/", "/a"))
}

func TestBuildClientConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := buildClientConfig(&Config{})
	require.ErrorIs(t, err, constants.ErrNoSiteConfigured)

	expired := time.Now().Add(-time.Hour)
	_, err = buildClientConfig(&Config{SiteURL: "https://contoso.example.com", Token: "t", TokenExpiresAt: &expired})
	require.ErrorIs(t, err, auth.ErrTokenExpired)

	viper.Set("verbose", true)

	spConfig, err := buildClientConfig(&Config{
		SiteURL:           "https://contoso.example.com",
		Token:             "t",
		ClientTag:         "spfs",
		RequestsPerSecond: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "t", spConfig.AccessToken)
	assert.Equal(t, "spfs", spConfig.ClientTag)
	assert.InDelta(t, 2.0, spConfig.RequestsPerSecond, 0)
	assert.True(t, spConfig.Debug)
	assert.NotNil(t, spConfig.Logger)
	assert.True(t, strings.HasPrefix(spConfig.UserAgent, userAgentPrefix))
}

func TestConfigCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.Set("config", configFile)

	out, err := runCommand(t, NewConfigCommand(), "set", keySiteURL, "contoso.example.com/sites/dev/")
	require.NoError(t, err)
	assert.Contains(t, out, "Set site_url")

	_, err = runCommand(t, NewConfigCommand(), "set", keyToken, "eyJ0eXAiOiJKV1Qi")
	require.NoError(t, err)

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "site_url: https://contoso.example.com/sites/dev")

	viper.Set(keyOutput, constants.FormatJSON)

	out, err = runCommand(t, NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"site_url": "https://contoso.example.com/sites/dev"`)
	assert.Contains(t, out, `"token": "eyJ0***"`)
	assert.NotContains(t, out, "eyJ0eXAiOiJKV1Qi")

	_, err = runCommand(t, NewConfigCommand(), "set", "nope", "x")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)

	_, err = runCommand(t, NewConfigCommand(), "set", keyOutput, "xml")
	require.ErrorIs(t, err, constants.ErrInvalidOutputFormat)

	_, err = runCommand(t, NewConfigCommand(), "unset", keyToken)
	require.NoError(t, err)
	assert.Empty(t, viper.GetString(keyToken))
}

func TestFoldersList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.True(t, strings.HasSuffix(request.URL.Path, "/folders"), request.URL.Path)
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
		assert.Equal(t, "spfs.fs.list", request.Header.Get("X-ClientService-ClientTag"))

		_, _ = writer.Write([]byte(`{"d":{"results":[` +
			`{"Name":"Reports","ItemCount":4,"ServerRelativeUrl":"/sites/dev/Shared Documents/Reports"},` +
			`{"Name":"Archive","ItemCount":0,"ServerRelativeUrl":"/sites/dev/Shared Documents/Archive"}]}}`))
	}))
	defer server.Close()

	useSite(t, server.URL+"/sites/dev")
	viper.Set(keyOutput, constants.FormatJSON)

	out, err := runCommand(t, NewFoldersCommand(), "ls", "/sites/dev/Shared Documents", "--match", "Re*")
	require.NoError(t, err)
	assert.Contains(t, out, `"Name": "Reports"`)
	assert.NotContains(t, out, "Archive")
}

func TestFoldersList_BadPattern(t *testing.T) {
	useSite(t, "https://contoso.example.com/sites/dev")

	_, err := runCommand(t, NewFoldersCommand(), "ls", "--match", "[")
	require.Error(t, err)
}

func TestFoldersUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPatch, request.Method)
		assert.Equal(t, "*", request.Header.Get("If-Match"))
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	useSite(t, server.URL+"/sites/dev")

	out, err := runCommand(t, NewFoldersCommand(), "update", "/sites/dev/Docs", "WelcomePage=home.aspx")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated /sites/dev/Docs")

	_, err = runCommand(t, NewFoldersCommand(), "update", "/sites/dev/Docs", "broken")
	require.ErrorIs(t, err, constants.ErrPropertyFormat)
}

func TestFoldersBatchAdd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/sites/dev/_api/$batch", request.URL.Path)

		writer.Header().Set("Content-Type", "multipart/mixed; boundary=batchresponse_1")
		_, _ = writer.Write([]byte("--batchresponse_1\r\n" +
			"Content-Type: application/http\r\n\r\n" +
			"HTTP/1.1 201 Created\r\nContent-Type: application/json\r\n\r\n" +
			`{"d":{"Name":"A"}}` + "\r\n" +
			"--batchresponse_1\r\n" +
			"Content-Type: application/http\r\n\r\n" +
			"HTTP/1.1 409 Conflict\r\nContent-Type: application/json\r\n\r\n" +
			`{"error":{"code":"-2130575257","message":{"lang":"en-US","value":"Already exists."}}}` + "\r\n" +
			"--batchresponse_1--\r\n"))
	}))
	defer server.Close()

	useSite(t, server.URL+"/sites/dev")

	out, err := runCommand(t, NewFoldersCommand(), "batch-add", "/", "A", "B")
	require.ErrorIs(t, err, constants.ErrBatchHadFailures)
	assert.Contains(t, err.Error(), "Already exists.")
	assert.Contains(t, out, "Created /A")
	assert.NotContains(t, out, "Created /B")
}

func TestFilesCat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.True(t, strings.HasSuffix(request.URL.Path, "/$value"), request.URL.Path)
		_, _ = writer.Write([]byte("hello from sharepoint"))
	}))
	defer server.Close()

	useSite(t, server.URL+"/sites/dev")

	out, err := runCommand(t, NewFilesCommand(), "cat", "/sites/dev/Docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello from sharepoint", out)
}

func TestFilesUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.True(t, strings.HasSuffix(request.URL.Path, "/files/add(overwrite=true,url='notes.txt')"), request.URL.Path)
		_, _ = writer.Write([]byte(`{"d":{"Name":"notes.txt"}}`))
	}))
	defer server.Close()

	useSite(t, server.URL+"/sites/dev")

	local := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(local, []byte("hello"), constants.ConfigFilePerm))

	out, err := runCommand(t, NewFilesCommand(), "upload", local, "/sites/dev/Docs", "--overwrite")
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded /sites/dev/Docs/notes.txt (5 bytes)")
}

func TestVersionCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(keyOutput, constants.FormatYAML)

	out, err := runCommand(t, NewVersionCommand("1.2.3", "abc", "today"))
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1.2.3")
	assert.Contains(t, out, "commit: abc")
}

func TestCommandStructure(t *testing.T) {
	t.Parallel()

	folders := NewFoldersCommand()

	for _, name := range []string{"ls", "info", "add", "mkdir", "rm", "mv", "cp", "update", "batch-add"} {
		sub, _, err := folders.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	mv, _, err := folders.Find([]string{"mv"})
	require.NoError(t, err)
	assert.NotNil(t, mv.Flags().Lookup("by-path"))
	assert.NotNil(t, mv.Flags().Lookup("keep-both"))
}
