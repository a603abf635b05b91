/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"prosafe_exporter/nsdp"
)

type Flags struct {
	ConfigPath string
	ConfigYaml string
	Listen     string
	Targets    []string
	Speed      bool
	Timeout    time.Duration
	LogLevel   string
	Debug      bool
}

var flags Flags

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "prosafe_exporter",
	Short:         "Prometheus exporter for NETGEAR ProSAFE switch port statistics",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(os.Stdout)
		if flags.Debug {
			log.SetLevel(log.DebugLevel)
		} else {
			if logLevel, err := log.ParseLevel(flags.LogLevel); err != nil {
				return errors.Wrap(err, "Failed to parse log level")
			} else {
				log.SetLevel(logLevel)
			}
		}

		log.Debugf("Command line arguments: %+v", flags)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	// Debug mode
	rootCmd.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "Debug mode")
	// log level
	rootCmd.PersistentFlags().StringVarP(&flags.LogLevel, "loglevel", "l", "info", "Log level (debug, info, warn, error, fatal)")
	// reply timeout
	rootCmd.PersistentFlags().DurationVarP(&flags.Timeout, "timeout", "t", nsdp.DefaultTimeout, "Time to wait for a switch reply")

	rootCmd.AddCommand(serveCmd, queryCmd)
}
