package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "setup-db"}, names)

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("port"))
}

func TestSetupDBRejectsMemory(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	root := NewRootCommand()
	root.SetArgs([]string{"setup-db"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}
