// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 9:14:05 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vestigo/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	analyzeURL   = flag.String("analyze", "", "Analyze a website and print the profile JSON")
	researchTerm = flag.String("research", "", "Run comprehensive research for a topic and print the bundle JSON")
	orgName      = flag.String("name", "", "Organization name for analysis or competitor research")
	industry     = flag.String("industry", "", "Industry hint for research queries")
	serve        = flag.Bool("serve", false, "Run the profile refresh scheduler until interrupted")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Vestigo version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Startup sequence:
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner
	// 4. Dispatch the requested command
	if len(configFiles) == 0 {
		if _, err := os.Stat("vestigo.toml"); err == nil {
			configFiles = append(configFiles, "vestigo.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Msg("Application configuration loaded")

	switch {
	case *analyzeURL != "":
		runAnalyze(*analyzeURL, *orgName)
	case *researchTerm != "":
		runResearch(*researchTerm, *orgName, *industry)
	case *serve:
		runServe()
	default:
		flag.Usage()
		os.Exit(2)
	}
}
