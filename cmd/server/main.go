package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/MrMEEE/yseal/internal/api"
	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/migrations"
	"github.com/MrMEEE/yseal/internal/store"
)

var cfgFile string

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", cfg.DBPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	return db, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the yseal registry server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrations.Up(db.DB); err != nil {
				return err
			}
			r := api.SetupRouter(store.New(db), cfg)
			log.Printf("starting server on %s", cfg.Addr)
			return r.Run(cfg.Addr)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrations.Up(db.DB); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:          "yseal",
		Short:        "ySEal SELinux policy registry",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	serve := newServeCmd()
	root.AddCommand(serve, newMigrateCmd())
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
