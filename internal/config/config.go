// Package config loads the optional workbench.yaml settings file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all workbench settings. Everything has a usable default so
// the tool runs without any file present.
type Config struct {
	// Workspace is the root directory of the projects/features tree.
	// Defaults to the current directory.
	Workspace string `yaml:"workspace"`

	// BackendURL is the base URL of the analysis/ticketing backend.
	BackendURL string `yaml:"backend_url"`

	// Listen is the address web mode binds to.
	Listen string `yaml:"listen"`

	Jira JiraConfig `yaml:"jira"`
}

// JiraConfig carries defaults for ticket creation. Values the user picks in
// the UI are persisted separately in the state store and win over these.
type JiraConfig struct {
	ProjectKey     string `yaml:"project_key"`
	SubtaskType    string `yaml:"subtask_type"`
	CreateSubtasks *bool  `yaml:"create_subtasks"`
}

// Default returns the built-in configuration.
func Default() Config {
	yes := true
	return Config{
		Workspace:  ".",
		BackendURL: "http://localhost:8000",
		Listen:     "localhost:8080",
		Jira: JiraConfig{
			SubtaskType:    "Sub-task",
			CreateSubtasks: &yes,
		},
	}
}

// Load reads a yaml config file and fills unset fields with defaults. A
// missing file at the default location is not an error; a missing file the
// user named explicitly is.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	def := Default()
	if cfg.Workspace == "" {
		cfg.Workspace = def.Workspace
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = def.BackendURL
	}
	if cfg.Listen == "" {
		cfg.Listen = def.Listen
	}
	if cfg.Jira.SubtaskType == "" {
		cfg.Jira.SubtaskType = def.Jira.SubtaskType
	}
	if cfg.Jira.CreateSubtasks == nil {
		cfg.Jira.CreateSubtasks = def.Jira.CreateSubtasks
	}
	return cfg
}
