package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"clean", "serve", "push", "score"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "leadclean", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCleanCommand_Flags(t *testing.T) {
	for _, name := range []string{
		"leads", "clients", "threshold", "profile",
		"lead-column", "client-column", "exclude-flagged",
		"max-candidates", "workers", "output", "format", "sheet",
	} {
		flag := cleanCmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "clean should have --%s flag", name)
	}

	threshold := cleanCmd.Flags().Lookup("threshold")
	require.NotNil(t, threshold)
	assert.Equal(t, "0", threshold.DefValue, "threshold must default to unset")

	excl := cleanCmd.Flags().Lookup("exclude-flagged")
	require.NotNil(t, excl)
	assert.Equal(t, "true", excl.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestPushCommand_Flags(t *testing.T) {
	flag := pushCmd.Flags().Lookup("file")
	require.NotNil(t, flag, "push command should have --file flag")
}

func TestScoreCommand_TwoNames(t *testing.T) {
	require.NoError(t, scoreCmd.RunE(scoreCmd, []string{"Acme, Corp.", "ACME CORP"}))
}
