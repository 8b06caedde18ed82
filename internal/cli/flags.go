package cli

import "nbl/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigFile  string
	Verbosity   int
	TestPath    string
	Processes   int
	Shards      int
	CollectOnly bool
	Mode        string
	Static      bool
	ShowDropped bool
	JSON        bool
	Interactive bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:  f.ConfigFile,
		Verbosity:   f.Verbosity,
		TestPath:    f.TestPath,
		Processes:   f.Processes,
		Shards:      f.Shards,
		CollectOnly: f.CollectOnly,
		Mode:        f.Mode,
		Static:      f.Static,
		ShowDropped: f.ShowDropped,
		JSON:        f.JSON,
		Interactive: f.Interactive,
	}
}
