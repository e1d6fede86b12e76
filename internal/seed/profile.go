package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a seeding recipe loaded from a YAML file, so demo environments
// can be reproduced without remembering flag combinations.
type Profile struct {
	Name        string `yaml:"name"`
	NumUsers    int    `yaml:"users"`
	NumArticles int    `yaml:"articles"`
	Clean       bool   `yaml:"clean"`
	MaxDays     int    `yaml:"max_days"`
}

// LoadProfile reads a seed profile from the given YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	if p.NumUsers <= 0 {
		return nil, fmt.Errorf("profile %q: users must be positive", p.Name)
	}
	if p.NumArticles < 0 {
		return nil, fmt.Errorf("profile %q: articles must not be negative", p.Name)
	}
	return &p, nil
}

// Options converts the profile into seeder options.
func (p *Profile) Options() Options {
	return Options{
		NumUsers:    p.NumUsers,
		NumArticles: p.NumArticles,
		ShouldClean: p.Clean,
		MaxDays:     p.MaxDays,
	}
}
