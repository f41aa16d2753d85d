package main

import (
	"fmt"
	"os"

	"chatlist/internal/config"
	"chatlist/internal/events"
	"chatlist/internal/logger"
	"chatlist/internal/store"
	"chatlist/internal/tui"
)

var log = logger.Named("main")

func main() {
	logger.Configure()

	cli, rest, err := parseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	cfg, err := loadConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if logFile, _, err := logger.SetupFile(cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize log file: %v\n", err)
		logger.Discard()
	} else {
		defer logFile.Close()
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("log level %q: %v", cfg.LogLevel, err)
	}

	if len(rest) > 0 {
		switch rest[0] {
		case "init-config":
			initConfigMain(cli, cfg)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", rest[0])
			os.Exit(2)
		}
	}
	if err := runInteractive(cli, cfg); err != nil {
		logger.Fatalf("chatlist: %v", err)
	}
}

func loadConfig(cli cliArgs) (config.Config, error) {
	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyKVOverrides(cfg, cli.overrides)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runInteractive(cli cliArgs, cfg config.Config) error {
	queue := events.NewEventQueue(64)
	defer queue.Close()

	st, err := store.Open(cfg.HistoryPath, store.Options{
		PageSize: cfg.PageSize,
		Latency:  cli.latency,
		Events:   queue,
	})
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	log.WithFields(logger.Fields{
		"config":  cfg.Source,
		"history": st.Path,
		"user":    cfg.UserID,
	}).Info("starting chatlist")
	return tui.Run(tui.Options{Config: cfg, Store: st, Events: queue})
}

// initConfigMain writes the effective configuration so it can be edited.
func initConfigMain(cli cliArgs, cfg config.Config) {
	path := cli.cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "%s already exists\n", path)
		os.Exit(1)
	}
	if err := config.Save(path, cfg); err != nil {
		logger.Fatalf("write config: %v", err)
	}
	fmt.Println(path)
}
