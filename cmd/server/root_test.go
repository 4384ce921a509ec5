package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentr/api/internal/config"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, 2)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("scoring-config"))
}

func TestServeCmd_PortFlagOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PASSWORD", "secret")

	a := &app{v: viper.New()}
	cmd := newServeCmd(a)
	require.NoError(t, cmd.Flags().Set("port", "9191"))

	cfg, err := config.LoadWith(a.v)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Server.Port)
}

func TestServeCmd_EnvWithoutFlag(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PASSWORD", "secret")

	a := &app{v: viper.New()}
	newServeCmd(a)

	cfg, err := config.LoadWith(a.v)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
}
