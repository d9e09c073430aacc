package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-conf-vault/internal/client"
	"github.com/MKhiriev/go-conf-vault/internal/config"
	"github.com/MKhiriev/go-conf-vault/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, args, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(2)
	}

	if len(args) > 0 && args[0] == "version" {
		printBuildInfo()
		return
	}

	log := logger.NewLogger("vaultctl", cfg.Log.ZerologLevel())
	if cfg.Log.ToFile {
		log, err = logger.NewFileLogger("vaultctl", filepath.Join(cfg.Store.ProfileDir, "logs"), cfg.Log.ZerologLevel())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating log file: %v\n", err)
			os.Exit(1)
		}
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	app, err := client.NewApp(cfg, client.NewTerminalReader(), os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init vaultctl error")
	}

	if err = app.Run(args); err != nil {
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, client.UserMessage(err))
		os.Exit(1)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
