package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lexscreen/internal/screening/rules"
)

type cli struct {
	v   *viper.Viper
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}
	var cfgFile string

	root := &cobra.Command{
		Use:           "screenctl",
		Short:         "Operate the lexscreen intake screening engine",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig(cfgFile)
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.String("overrides", "", "rule overrides YAML (weights and thresholds)")
	flags.String("database-url", "", "PostgreSQL URL for record commands")
	flags.StringP("output", "o", "table", "output format: table or json")
	_ = c.v.BindPFlag("overrides", flags.Lookup("overrides"))
	_ = c.v.BindPFlag("database_url", flags.Lookup("database-url"))
	_ = c.v.BindPFlag("output", flags.Lookup("output"))

	root.AddCommand(c.classifyCmd(), c.rulesCmd(), c.recordsCmd())
	return root
}

// initConfig layers flags over LEXSCREEN_* env over the optional file.
func (c *cli) initConfig(cfgFile string) error {
	c.v.SetEnvPrefix("LEXSCREEN")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	if cfgFile == "" {
		return nil
	}
	c.v.SetConfigFile(cfgFile)
	return c.v.ReadInConfig()
}

func (c *cli) classifier() (*rules.Classifier, error) {
	path := c.v.GetString("overrides")
	if path == "" {
		return rules.New()
	}
	o, err := rules.LoadOverrides(path)
	if err != nil {
		return nil, err
	}
	return rules.New(rules.WithOverrides(o))
}

func (c *cli) jsonOutput() bool {
	return strings.EqualFold(c.v.GetString("output"), "json")
}
