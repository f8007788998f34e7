package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .s5vector.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to s5vector! Let's configure your store.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend selection.
	backendPrompt := promptui.Select{
		Label: "Select storage backend",
		Items: []string{
			"sqlite (persistent, single local file)",
			"memory (ephemeral, for experiments)",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	backends := []Backend{BackendSQLite, BackendMemory}
	cfg.Backend = backends[backendIdx]

	// 2. Data directory (sqlite only).
	if cfg.Backend == BackendSQLite {
		dirPrompt := promptui.Prompt{
			Label:   "Data directory",
			Default: cfg.DataDir,
		}
		dir, err := dirPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("data directory: %w", err)
		}
		cfg.DataDir = dir
	}

	// 3. Default owner recorded on new databases.
	ownerPrompt := promptui.Prompt{
		Label:   "Default owner (blank for none)",
		Default: "",
	}
	owner, err := ownerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	cfg.Owner = owner

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", DefaultConfigFile)
	return cfg, nil
}
