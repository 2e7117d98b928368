package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/JobMwaura/zintra-sub009/internal/app"
	"github.com/JobMwaura/zintra-sub009/internal/config"
	"github.com/JobMwaura/zintra-sub009/internal/infrastructure/database"
)

func main() {
	root := &cobra.Command{
		Use:   "zintrasvc",
		Short: "Zintra verification and ZCC credit service",
	}

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("config: %v", err)
			}
			if err := app.Run(cfg); err != nil {
				log.Fatalf("app: %v", err)
			}
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("config: %v", err)
			}
			db, err := database.Open(cfg.DSN)
			if err != nil {
				log.Fatalf("database: %v", err)
			}
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("migrate: %v", err)
			}
			log.Println("migrations applied")
		},
	}
}
