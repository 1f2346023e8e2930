package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config  string
	Debug   bool
	Dest    string
	Notify  string
	LogFile string
}

// Register binds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Dest, "dest", "", "Destination root (default: download folder)")
	fs.StringVar(&f.Notify, "notify", "", "Outcome notifier: console, dialog or log")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Dest != "" {
		cfg.Export.Destination = f.Dest
	}
	if f.Notify != "" {
		cfg.Notify.Kind = f.Notify
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
