package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentDirCandidates are directory names checked, in order, for markdown
// resources when suggesting a content_dir.
var contentDirCandidates = []string{"content", "resources", "docs", "src/content"}

// detectContentDir returns the first candidate directory that holds at least
// one markdown file, and how many it holds.
func detectContentDir() (dir string, count int) {
	for _, candidate := range contentDirCandidates {
		n := countMarkdown(candidate)
		if n > 0 {
			return candidate, n
		}
	}
	return "content", 0
}

func countMarkdown(dir string) int {
	n := 0
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			n++
		}
		return nil
	})
	return n
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .compass.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to compass! Let's configure your resource catalog.")
	fmt.Println()

	defaultDir, found := detectContentDir()
	if found > 0 {
		fmt.Printf("Found %d markdown files under %s/\n\n", found, defaultDir)
	}

	// 1. Content directory.
	contentPrompt := promptui.Prompt{
		Label:   "Content directory (one folder per category)",
		Default: defaultDir,
	}
	contentDir, err := contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}

	// 2. Exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	// 3. Related limit.
	limitPrompt := promptui.Prompt{
		Label:    "Related resources shown per item",
		Default:  "5",
		Validate: validateNonNegative,
	}
	limitStr, err := limitPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("related limit: %w", err)
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Explorer server port",
		Default:  "8080",
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}

	// 5. Log profile.
	envPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{
			"development (readable console output)",
			"production (JSON lines)",
		},
	}
	envIdx, _, err := envPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}

	cfg := DefaultConfig()
	cfg.ContentDir = strings.TrimSpace(contentDir)
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)
	cfg.RelatedLimit, _ = strconv.Atoi(limitStr)
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.Log.Env = []Environment{EnvDevelopment, EnvProduction}[envIdx]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		fmt.Printf("Note: %s does not exist yet; create it before running compass import.\n", cfg.ContentDir)
	}
	return cfg, nil
}

func validateNonNegative(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative whole number")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and drops blank entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
