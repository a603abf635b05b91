package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"prosafe_exporter/exporter"
	"prosafe_exporter/prosafe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve switch statistics over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(flags.ConfigPath, flags.ConfigYaml)
		if err != nil {
			return err
		}
		if flags.ConfigPath != "" {
			log.Infof("Loaded config file: %s", flags.ConfigPath)
		}

		// command line wins over the config file
		if cmd.Flags().Changed("listen") {
			config.ListenAddress = flags.Listen
		}
		if cmd.Flags().Changed("timeout") {
			config.Timeout = flags.Timeout
		}
		if len(flags.Targets) > 1 {
			return errors.New("Only one static target can be served")
		}
		if len(flags.Targets) == 1 {
			t, err := prosafe.ParseTarget(flags.Targets[0])
			if err != nil {
				return err
			}
			config.Target = target(t)
		}
		log.Debugf("Config: %+v", config)

		return exporter.ListenAndServe(config.ListenAddress, &exporter.Handler{
			Target:  prosafe.Target(config.Target),
			Timeout: config.Timeout,
		})
	},
}

func init() {
	// config file
	serveCmd.Flags().StringVarP(&flags.ConfigPath, "config", "f", "", "Config file path")
	serveCmd.Flags().StringVar(&flags.ConfigYaml, "config-yaml", "", "Config as a YAML string")
	serveCmd.MarkFlagsMutuallyExclusive("config", "config-yaml")

	// listen address
	serveCmd.Flags().StringVar(&flags.Listen, "listen", defaultListenAddress, "Address to listen on")
	// static target for /metrics
	serveCmd.Flags().StringArrayVar(&flags.Targets, "target", nil, "Switch served on /metrics (host:interface)")
}
