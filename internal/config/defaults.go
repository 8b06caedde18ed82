package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "."
	// DefaultConfigFile is looked up in the project path when --config is not set
	DefaultConfigFile = "nbl.yaml"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".nbl"
	// DefaultReportStream is where nose writes its verbose report
	DefaultReportStream = "stderr"
	// DefaultShards is the default number of host processes for a run
	DefaultShards = 1
	// DefaultMode filters tests in nbl and passes the kept ones to the host
	DefaultMode = ModeSelector
)

// Run modes
const (
	// ModeSelector collects tests, filters them here and runs the kept addresses
	ModeSelector = "selector"
	// ModePlugin hands the blacklist flags to the host's own plugin
	ModePlugin = "plugin"
)

// DefaultHostCommand runs nose
var DefaultHostCommand = []string{"nosetests"}

// DefaultPathsToIgnore are the directories skipped when scanning for tests
var DefaultPathsToIgnore = []string{
	"__pycache__",
	"node_modules",
	"venv",
	"env",
	"build",
	"dist",
	"site-packages",
}
