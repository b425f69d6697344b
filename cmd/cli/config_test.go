package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("auth-domain", defaultAuthDomain, "")
	cmd.Flags().String("cb-domain", defaultCBDomain, "")
	cmd.Flags().String("service", defaultService, "")
	cmd.Flags().String("subservice", defaultSubservice, "")
	cmd.Flags().String("password", "", "")
	cmd.Flags().StringSlice("type", []string{"Streetlight", "StreetlightControlCabinet"}, "")
	cmd.Flags().Int("max-passes", 10, "")
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := loadConfig(testCommand())
	require.NoError(t, err)

	assert.Equal(t, defaultAuthDomain, config.AuthDomain)
	assert.Equal(t, defaultCBDomain, config.CBDomain)
	assert.Equal(t, defaultService, config.Service)
	assert.Equal(t, defaultSubservice, config.Subservice)
	assert.Equal(t, []string{"Streetlight", "StreetlightControlCabinet"}, config.Types)
	assert.Equal(t, 10, config.MaxPasses)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("RM_CB_DOMAIN", "http://broker.example:1026")
	t.Setenv("RM_SERVICE", "valencia")
	t.Setenv("RM_PASSWORD", "from-env")

	config, err := loadConfig(testCommand())
	require.NoError(t, err)

	assert.Equal(t, "http://broker.example:1026", config.CBDomain)
	assert.Equal(t, "valencia", config.Service)
	assert.Equal(t, "from-env", config.Password)
}

func TestLoadConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv("RM_SERVICE", "valencia")

	cmd := testCommand()
	require.NoError(t, cmd.Flags().Set("service", "cartagena"))

	config, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "cartagena", config.Service)
}
