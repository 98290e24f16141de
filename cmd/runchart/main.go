package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/runchart/runchart/internal/config"
	"github.com/runchart/runchart/internal/provider"
	"github.com/runchart/runchart/internal/theme"
	"github.com/runchart/runchart/internal/tui"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	fileFlag := flag.String("file", "", "path to the JSON run snapshot (overrides config)")
	themeFlag := flag.String("theme", "", "color theme: light or dark (overrides config)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *versionFlag {
		fmt.Println("runchart", version)
		os.Exit(0)
	}

	cfg, err := config.LoadFrom(config.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	snapshotPath := cfg.SnapshotFile
	if *fileFlag != "" {
		snapshotPath = *fileFlag
	}
	if snapshotPath == "" && flag.NArg() > 0 {
		snapshotPath = flag.Arg(0)
	}
	if snapshotPath == "" {
		fmt.Fprintf(os.Stderr, "no snapshot file: pass -file or set snapshot_file in %s\n", config.DefaultConfigPath())
		os.Exit(1)
	}

	themeName := cfg.Theme
	if *themeFlag != "" {
		themeName = *themeFlag
	}
	mode := theme.ParseMode(themeName)

	p := provider.NewFallbackProvider(provider.NewFileAdapter(snapshotPath))

	// Fail fast on an unreadable or malformed snapshot before entering
	// the alternate screen.
	if _, err := p.Snapshot(); err != nil {
		fmt.Fprintf(os.Stderr, "error reading snapshot: %v\n", err)
		os.Exit(1)
	}

	refresh := time.Duration(cfg.RefreshSecondsOrDefault()) * time.Second
	finalMode := tui.Run(p, mode, refresh, cfg.ChartHeight)

	// Persist an in-session theme toggle so the next launch keeps it.
	if finalMode != mode {
		if finalMode == theme.Light {
			cfg.Theme = "light"
		} else {
			cfg.Theme = "dark"
		}
		if err := config.Save(config.DefaultConfigPath(), cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save config: %v\n", err)
		}
	}
}
