package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/appetiteclub/apt"

	"github.com/appetiteclub/tableside/cmd/utils/internal/commands"
)

const (
	appName    = "tableside-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var reportDate string
	if command == "report" {
		if len(args) < 1 {
			fmt.Println("report requires a date (YYYY-MM-DD)")
			os.Exit(1)
		}
		reportDate, args = args[0], args[1:]
	}

	config, err := apt.LoadConfig("UTILS", args)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel := config.GetStringOrDef("log.level", "info")
	logger := apt.NewLogger(logLevel)

	ctx := context.Background()

	switch command {
	case "report":
		if err := commands.Report(ctx, os.Stdout, reportDate, config, logger); err != nil {
			log.Fatalf("Report failed: %v", err)
		}

	case "reset-state":
		if err := commands.ResetState(ctx, config, logger); err != nil {
			log.Fatalf("State reset failed: %v", err)
		}
		logger.Info("State reset completed")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Tableside utility commands

Usage:
  %s <command> [options]

Commands:
  report <YYYY-MM-DD>   Print the daily sales report for a date
  reset-state           Delete the stored floor state (USE WITH CAUTION)
  version               Print version information
  help                  Show this help message

Environment Variables:
  UTILS_DB_MONGO_URL    MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_DB_MONGO_NAME   Database name (default: appetite_floor)
  UTILS_LOG_LEVEL       Log level: debug, info, warn, error (default: info)

Examples:
  %s report 2026-10-16
  UTILS_DB_MONGO_URL=mongodb://localhost:27017 %s reset-state

`, appName, appName, appName, appName)
}
