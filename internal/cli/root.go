package cli

import (
	"grc-platform/internal/config"
	"grc-platform/internal/database"
	"grc-platform/internal/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var debugMode bool

// в тестах подменяется
var openDB = func() *gorm.DB {
	cfg := config.Load()
	database.Init(cfg.DBDSN, cfg.AdminUsername, cfg.AdminPassword)
	return database.DB
}

var rootCmd = &cobra.Command{
	Use:   "scorectl",
	Short: "scorectl - GRC scoring operations",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitLogger(debugMode)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "verbose logging")
	rootCmd.AddCommand(rescoreCmd, classifyCmd)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
