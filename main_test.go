package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestao-alunos-go/config"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"panel", "api", "seed", "import", "export"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestImportRequiresFile(t *testing.T) {
	chdir(t, t.TempDir())
	root := newRootCmd()
	root.SetArgs([]string{"import"})
	require.Error(t, root.Execute())

	root = newRootCmd()
	root.SetArgs([]string{"import", "nao-existe.xlsx"})
	require.Error(t, root.Execute())
}

func TestPanelGatewayUsesConfiguredBase(t *testing.T) {
	gw := newGateway(config.Config{APIBase: "http://api.local:8080/api/"})
	assert.Equal(t, "http://api.local:8080/api", gw.BaseURL())

	p := newPanel(config.Config{APIBase: gw.BaseURL()}, gw)
	assert.NotNil(t, p)
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
