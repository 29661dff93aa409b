package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/vortex/internal/system"
)

// Write writes a scenario to a YAML file
func Write(sc *Scenario, path string) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads a scenario from a YAML file
func Read(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &sc, nil
}

// GeneratePath creates a timestamped scenario filename in dir
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scenario_%s.yaml", timestamp))
}

// FindLatest finds the most recently modified scenario in dir
func FindLatest(dir string) (string, error) {
	path, err := system.FindLatestFile(dir, ".yaml", ".yml")
	if err != nil {
		return "", fmt.Errorf("no scenario found: %w", err)
	}
	return path, nil
}
