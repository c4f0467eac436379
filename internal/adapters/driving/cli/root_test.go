package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"search", "health", "credentials", "serve", "token", "mcp", "tui", "settings", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "log-format", "user", "org"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "u", rootCmd.PersistentFlags().Lookup("user").Shorthand)
}

func TestLoadRuntime_NotConfigured(t *testing.T) {
	current, newRuntime = nil, nil

	_, err := loadRuntime(&cobra.Command{})

	assert.EqualError(t, err, "application not configured")
}

func TestLoadRuntime_BuildsOnce(t *testing.T) {
	t.Cleanup(func() { current, newRuntime = nil, nil })
	current = nil
	builds := 0
	SetRuntimeFactory(func(context.Context) (*Runtime, error) {
		builds++
		return &Runtime{}, nil
	})

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	first, err := loadRuntime(cmd)
	require.NoError(t, err)
	second, err := loadRuntime(cmd)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
}

func TestLoadRuntime_FactoryError(t *testing.T) {
	t.Cleanup(func() { current, newRuntime = nil, nil })
	current = nil
	SetRuntimeFactory(func(context.Context) (*Runtime, error) {
		return nil, errors.New("database locked")
	})

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := loadRuntime(cmd)

	assert.EqualError(t, err, "starting sercha: database locked")
}

func TestCloseRuntime(t *testing.T) {
	tr := setupTestServices(t)

	closeRuntime()
	closeRuntime()

	assert.Equal(t, 1, tr.closed)
	assert.Nil(t, current)
}

func TestExecute_ClosesRuntime(t *testing.T) {
	tr := setupTestServices(t)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, Execute(context.Background()))

	assert.Equal(t, 1, tr.closed)
}

func TestVersion_DoesNotBuildRuntime(t *testing.T) {
	t.Cleanup(func() { current, newRuntime = nil, nil })
	current = nil
	SetRuntimeFactory(func(context.Context) (*Runtime, error) {
		t.Fatal("runtime built for version")
		return nil, nil
	})

	out, err := execute("version")

	require.NoError(t, err)
	assert.Contains(t, out, "sercha version")
}

func TestSetVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestRequireUser(t *testing.T) {
	t.Cleanup(func() { userID, orgID = "", "" })
	t.Setenv("SERCHA_USER", "")

	userID = ""
	_, err := requireUser()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "SERCHA_USER")

	userID = "alice"
	got, err := requireUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestRequireUser_FromEnvironment(t *testing.T) {
	t.Cleanup(func() { userID, orgID = "", "" })
	userID, orgID = "", ""
	t.Setenv("SERCHA_USER", "bob")
	t.Setenv("SERCHA_ORG", "acme")

	got, err := requireUser()

	require.NoError(t, err)
	assert.Equal(t, "bob", got)
	assert.Equal(t, "acme", orgID)
}
