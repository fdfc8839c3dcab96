package config

import "flag"

// Flags holds command line options that override the configuration.
type Flags struct {
	fs *flag.FlagSet

	Config   string
	LogLevel string
	LogFile  string
	Version  int
	Strict   bool
	Diag     bool
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write log to file")
	fs.IntVar(&f.Version, "version", 0, "Format version of written models (1 or 2)")
	fs.BoolVar(&f.Strict, "strict", false, "Fail on stored size mismatches")
	fs.BoolVar(&f.Diag, "diag", false, "Write diagnostic attributes to text output")
	return f
}

// Apply applies the flags that were set on the command line to cfg, then
// validates the result.
func (f *Flags) Apply(cfg *Config) error {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-level":
			cfg.Logging.Level = f.LogLevel
		case "log-file":
			cfg.Logging.LogFile = f.LogFile
		case "version":
			cfg.Codec.Version = int32(f.Version)
		case "strict":
			cfg.Codec.StrictSizes = f.Strict
		case "diag":
			cfg.Text.Diagnostics = f.Diag
		}
	})
	return cfg.Validate()
}
