package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Historical defaults of the tool; every one can be overridden through
// a flag or an RM_-prefixed environment variable.
const (
	defaultAuthDomain = "https://iot.demo.urbo2.es"
	defaultCBDomain   = "http://iot.demo.urbo2.es:1026"
	defaultService    = "murcia"
	defaultSubservice = "/demo"
)

// Config holds the resolved settings for one invocation
type Config struct {
	AuthDomain string
	CBDomain   string
	Service    string
	Subservice string
	Password   string
	Types      []string
	MaxPasses  int
}

// loadConfig resolves the command's settings with flags taking
// precedence over RM_* environment variables, which take precedence
// over the built-in defaults.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("RM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"auth-domain", "cb-domain", "service", "subservice"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	for _, name := range []string{"password", "type", "max-passes"} {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(name, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	config := &Config{
		AuthDomain: v.GetString("auth-domain"),
		CBDomain:   v.GetString("cb-domain"),
		Service:    v.GetString("service"),
		Subservice: v.GetString("subservice"),
		Password:   v.GetString("password"),
		Types:      v.GetStringSlice("type"),
		MaxPasses:  v.GetInt("max-passes"),
	}

	if config.AuthDomain == "" || config.CBDomain == "" {
		return nil, fmt.Errorf("auth-domain and cb-domain must not be empty")
	}

	return config, nil
}
