package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashfeed/pkg/config"
	"hashfeed/pkg/errors"
	"hashfeed/pkg/logger"
)

const igOnePost = `{
  "meta": {"code": 200},
  "data": [
    {"id": "111_1", "user": {"id": "1", "full_name": "Ann", "profile_picture": "http://img/ann.jpg"},
     "caption": {"text": "first"}, "images": {"standard_resolution": {"url": "http://img/1.jpg"}}, "created_time": "1400000000"}
  ]
}`

// runCLI executes rootCmd with args against a config pointing Instagram at
// upstream, returning what was written to stdout and stderr.
func runCLI(t *testing.T, upstream http.HandlerFunc, args ...string) (string, string, error) {
	t.Helper()

	ig := httptest.NewServer(upstream)
	t.Cleanup(ig.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("HASHFEED_PASSPHRASE", "test-passphrase")

	cfgPath := filepath.Join(home, "hashfeed.yaml")
	cfgYAML := fmt.Sprintf("hashtag: \"#golang\"\ninstagram:\n  client_id: cid\n  base_url: %s\n", ig.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0600))

	configFile, logLevel, logFormat, hashtag, lastID = "", "", "", "", ""
	verbose, noColor = false, false
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		_ = logger.Initialize(&config.LoggingConfig{Level: "disabled"})
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFetchWritesOnlyJSONToStdout(t *testing.T) {
	stdout, stderr, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(igOnePost))
	}, "fetch", "instagram", "--log-format", "json")
	require.NoError(t, err)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &posts), "stdout: %s", stdout)
	require.Len(t, posts, 1)
	assert.Equal(t, "111_1", posts[0]["id"])
	assert.Equal(t, "instagram", posts[0]["type"])
	assert.Equal(t, "http://img/1.jpg", posts[0]["image"])

	assert.Contains(t, stderr, "feed served")
}

func TestFetchConsoleLogsStayOffStdout(t *testing.T) {
	stdout, _, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"code":200},"data":[]}`))
	}, "fetch", "instagram", "--log-level", "debug")
	require.NoError(t, err)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &posts), "stdout: %s", stdout)
	assert.Empty(t, posts)
	assert.NotNil(t, posts, "an empty feed is [] not null")
}

func TestFetchPrintsErrorObject(t *testing.T) {
	stdout, _, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"meta":{"code":400,"error_type":"OAuthException","error_message":"The access_token provided is invalid."}}`))
	}, "fetch", "instagram")
	require.Error(t, err)

	var body map[string]errors.WireError
	require.NoError(t, json.Unmarshal([]byte(stdout), &body), "stdout: %s", stdout)
	assert.Equal(t, errors.WireError{
		Code:    400,
		Type:    "OAuthException",
		Message: "The access_token provided is invalid.",
	}, body["error"])
}

func TestFetchUnknownPlatform(t *testing.T) {
	stdout, _, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {}, "fetch", "myspace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown platform")
	assert.Empty(t, stdout)
}
