package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync <file>",
	Short: "Process one spreadsheet and exit",
	Long: `Runs a single ingestion pass for the given spreadsheet file and
prints the resulting report as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		engine, cleanup, err := buildEngine(cmd.Context(), cfg, db, logg)
		if err != nil {
			return err
		}
		defer cleanup()

		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		report, err := engine.Process(cmd.Context(), path)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
