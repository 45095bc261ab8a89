// Package config defines the CLI structure for kong parsing.
package config

import (
	"github.com/Alia5/padnav/internal/cmd"
)

type Log struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PADNAV_LOG_LEVEL"`
	File  string `help:"Log file path (default: none; logs only to console)" env:"PADNAV_LOG_FILE"`
}

// CLI is the root command structure for kong CLI parsing.
type CLI struct {
	Log    `embed:"" prefix:"log."`
	Config string `help:"Extra config file, loaded after the default locations" env:"PADNAV_CONFIG"`

	Demo  cmd.Demo  `cmd:"" help:"Run the simulated dashboard in the terminal, driven by the keyboard"`
	Serve cmd.Serve `cmd:"" help:"Serve the websocket bridge for a browser dashboard"`
}
