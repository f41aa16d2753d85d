package main

import (
	"flag"
	"time"
)

type cliArgs struct {
	cfgPath   string
	overrides []string
	latency   time.Duration
}

func parseArgs(args []string) (cliArgs, []string, error) {
	fs := flag.NewFlagSet("chatlist", flag.ContinueOnError)
	var cli cliArgs
	var overrides stringSlice
	var history string
	var user string
	fs.StringVar(&cli.cfgPath, "config", "", "Path to config.toml (default ~/.chatlist/config.toml)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	fs.StringVar(&history, "history", "", "History file; shorthand for -c history_path=<path>")
	fs.StringVar(&user, "user", "", "Local user id; shorthand for -c user_id=<id>")
	fs.DurationVar(&cli.latency, "latency", 0, "Artificial delay for every page fetch")
	if err := fs.Parse(args); err != nil {
		return cliArgs{}, nil, err
	}
	cli.overrides = append(cli.overrides, overrides...)
	if history != "" {
		cli.overrides = append(cli.overrides, "history_path="+history)
	}
	if user != "" {
		cli.overrides = append(cli.overrides, "user_id="+user)
	}
	return cli, fs.Args(), nil
}
