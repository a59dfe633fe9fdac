// Package commands implements the CLI commands for cleanhtml.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vpotap/CleanHTML/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cleanhtml",
	Short: "Normalize pasted HTML into a minimal semantic fragment",
	Long: `cleanhtml normalizes untrusted, loosely formatted HTML — the kind
pasted from word processors, spreadsheets or web editors — into minimal,
well-formed markup restricted to an explicit tag allowlist.

Examples:
  # Clean a file to stdout
  cleanhtml clean page.html

  # Clean stdin, allowing links and images
  cat paste.html | cleanhtml clean --links --images

  # Strip every tag
  cleanhtml clean --strip page.html

  # Paragraph reconstruction only
  cleanhtml autop notes.txt`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.cleanhtml.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".cleanhtml")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLEANHTML")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
