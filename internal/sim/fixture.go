// Package sim is an in-process stand-in for the real dashboard page. The
// demo command and the integration tests drive the engine against it.
package sim

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

// ElementSpec describes one on-screen element in a fixture file.
type ElementSpec struct {
	Label    string  `yaml:"label"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	W        float64 `yaml:"w"`
	H        float64 `yaml:"h"`
	Excluded bool    `yaml:"excluded"`
	Cloaked  bool    `yaml:"cloaked"`
}

// MachineSpec is one structured list row with its inline actions.
type MachineSpec struct {
	Name    string        `yaml:"name"`
	X       float64       `yaml:"x"`
	Y       float64       `yaml:"y"`
	W       float64       `yaml:"w"`
	H       float64       `yaml:"h"`
	Actions []ElementSpec `yaml:"actions"`
}

// ModalSpec describes an overlay. Activating any element whose label
// matches Trigger opens it.
type ModalSpec struct {
	Label    string        `yaml:"label"`
	Trigger  string        `yaml:"trigger"`
	X        float64       `yaml:"x"`
	Y        float64       `yaml:"y"`
	W        float64       `yaml:"w"`
	H        float64       `yaml:"h"`
	Visible  bool          `yaml:"visible"`
	Cloaked  bool          `yaml:"cloaked"`
	Controls []ElementSpec `yaml:"controls"`
	Cards    []ElementSpec `yaml:"cards"`
}

// Fixture is a fully described dashboard page.
type Fixture struct {
	Viewport struct {
		W float64 `yaml:"w"`
		H float64 `yaml:"h"`
	} `yaml:"viewport"`
	NavLinks  []ElementSpec `yaml:"nav_links"`
	Header    []ElementSpec `yaml:"header"`
	Machines  []MachineSpec `yaml:"machines"`
	AddButton *ElementSpec  `yaml:"add_button"`
	Modals    []ModalSpec   `yaml:"modals"`
}

// DefaultFixture parses the embedded machines-table fixture.
func DefaultFixture() Fixture {
	f, err := ParseFixture(defaultFixture)
	if err != nil {
		// The embedded fixture is validated by tests; this is unreachable
		// with a correct build.
		panic(fmt.Sprintf("sim: embedded fixture invalid: %v", err))
	}
	return f
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Viewport.W <= 0 || f.Viewport.H <= 0 {
		return Fixture{}, fmt.Errorf("fixture: viewport must have positive size")
	}
	return f, nil
}

// LoadFixture reads a fixture file from disk.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	return ParseFixture(data)
}
