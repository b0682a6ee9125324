package spec

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSteps            = 50
	DefaultRepeats          = 20
	DefaultDiscardThreshold = 0.1
	DefaultConcurrency      = 1
	DefaultTrialTimeout     = 30 * time.Second
)

func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan YAML: %w", err)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

var validArchiveTypes = map[string]bool{
	"postgres":      true,
	"elasticsearch": true,
	"file":          true,
}

func validate(p *Plan) error {
	if p.Trial.Steps == 0 {
		p.Trial.Steps = DefaultSteps
	}
	if p.Trial.Repeats == 0 {
		p.Trial.Repeats = DefaultRepeats
	}
	if err := p.Trial.Validate(); err != nil {
		return err
	}

	if p.DiscardThreshold == 0 {
		p.DiscardThreshold = DefaultDiscardThreshold
	}
	if p.DiscardThreshold < 0 || p.DiscardThreshold > 1 {
		return fmt.Errorf("discard_threshold must be in [0, 1], got %v", p.DiscardThreshold)
	}
	if p.TrimFraction < 0 || p.TrimFraction >= 0.5 {
		return fmt.Errorf("trim_fraction must be in [0, 0.5), got %v", p.TrimFraction)
	}
	if p.Concurrency == 0 {
		p.Concurrency = DefaultConcurrency
	}
	if p.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", p.Concurrency)
	}
	if p.TrialTimeout == 0 {
		p.TrialTimeout = DefaultTrialTimeout
	}
	if p.TrialTimeout < 0 {
		return fmt.Errorf("trial_timeout must be positive, got %v", p.TrialTimeout)
	}

	if p.Archive != nil {
		if p.Archive.Type == "" {
			return fmt.Errorf("archive has no type")
		}
		if !validArchiveTypes[p.Archive.Type] {
			return fmt.Errorf("archive has invalid type %q", p.Archive.Type)
		}
		switch p.Archive.Type {
		case "file":
			if p.Archive.Dir == "" {
				return fmt.Errorf("file archive has no dir")
			}
		default:
			if p.Archive.Connection == "" {
				return fmt.Errorf("%s archive has no connection", p.Archive.Type)
			}
		}
	}
	return nil
}
