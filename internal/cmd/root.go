package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/upkeep/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "upkeep",
	Short: "Routine maintenance for an Arch Linux workstation",
	Long: `Upkeep runs the routine maintenance of an Arch Linux workstation in one go.

The mirror list refresh and the system upgrade run first, one after the other.
Package cache pruning, orphan removal, cache clean-up, container pruning and
the Rust toolchain update then run concurrently. A failing task never stops
the others; every outcome ends up in the report printed at the end.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runUpkeep,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the run context,
// which terminates the external commands still running.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/upkeep/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/upkeep")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("UPKEEP")
	// e.g., UPKEEP_REPORT_FAIL_ON_ERROR for report.fail_on_error
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
