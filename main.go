package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"workbench/internal/analyze"
	"workbench/internal/config"
	"workbench/internal/fsys"
	"workbench/internal/model"
	"workbench/internal/report"
	"workbench/internal/scan"
	"workbench/internal/store"
	"workbench/internal/ticket"
	"workbench/internal/tui"
	"workbench/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "ai-workbench",
		Repository: "workbench",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/ai-workbench/workbench/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: workbench [options]\n\n")
		fmt.Fprintf(os.Stderr, "workbench visualizes and edits a projects/features workspace.\n")
		fmt.Fprintf(os.Stderr, "It shows the recognized workspace tree with per-agent status and\n")
		fmt.Fprintf(os.Stderr, "bridges to the analysis/Jira backend.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  workbench                  # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  workbench --report         # Print workspace report to stdout\n")
		fmt.Fprintf(os.Stderr, "  workbench -r -o r.txt      # Save report to file\n")
		fmt.Fprintf(os.Stderr, "  workbench --json           # Output scanned tree as JSON\n")
		fmt.Fprintf(os.Stderr, "  workbench --web            # Serve the browser UI\n")
	}

	workspaceFlag := pflag.StringP("workspace", "C", "", "Workspace root directory (default: config or current dir)")
	configFlag := pflag.StringP("config", "c", "", "Path to workbench.yaml")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the scanned tree as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Generate a workspace report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("workbench version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg := loadConfig(*configFlag)
	if *workspaceFlag != "" {
		cfg.Workspace = *workspaceFlag
	}
	wsPath, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving workspace path: %v\n", err)
		os.Exit(1)
	}
	if info, err := os.Stat(wsPath); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: workspace %s is not a directory\n", wsPath)
		os.Exit(1)
	}

	if *webFlag {
		runWebMode(cfg, wsPath)
		return
	}

	if *reportFlag {
		runReportMode(wsPath, *outputFlag)
		return
	}

	if *jsonFlag {
		runJsonMode(wsPath)
		return
	}

	// Default: TUI
	runTuiMode(wsPath)
}

func loadConfig(path string) config.Config {
	explicit := path != ""
	if !explicit {
		path = "workbench.yaml"
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func runReportMode(wsPath, outputFile string) {
	tree := scan.Scan(context.Background(), fsys.OSDir(wsPath))
	text := report.Generate(context.Background(), tree)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(text), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(text)
	}
}

func runJsonMode(wsPath string) {
	tree := scan.Scan(context.Background(), fsys.OSDir(wsPath))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(tree)
}

func runWebMode(cfg config.Config, wsPath string) {
	st, err := store.Open(wsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening state store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	srv := &web.Server{
		Root:          fsys.OSDir(wsPath),
		WorkspacePath: wsPath,
		Backend:       analyze.NewClient(cfg.BackendURL),
		Jira:          ticket.NewClient(cfg.BackendURL),
		Store:         st,
	}
	if err := srv.Start(cfg.Listen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTuiMode(wsPath string) {
	m := tui.InitialModel(fsys.OSDir(wsPath))
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
