package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file written next to the programs of a run.
const ManifestName = "manifest.yaml"

// Manifest records how to reproduce every program of a run.
type Manifest struct {
	RunID    string  `yaml:"run_id"`
	Grammar  string  `yaml:"grammar"`
	Start    string  `yaml:"start"`
	Programs []Entry `yaml:"programs"`
}

// Entry is one program file and its seed.
type Entry struct {
	File string `yaml:"file"`
	Seed int64  `yaml:"seed"`
}

// Write stores each program in dir as program-NNNN<ext> and writes the
// manifest. The directory is created if needed.
func Write(dir, grammar, start, ext string, programs []Program) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create output directory: %w", err)
	}

	m := Manifest{
		RunID:    uuid.NewString(),
		Grammar:  grammar,
		Start:    start,
		Programs: make([]Entry, 0, len(programs)),
	}
	for _, p := range programs {
		name := fmt.Sprintf("program-%04d%s", p.Index, ext)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(p.Text+"\n"), 0o644); err != nil {
			return Manifest{}, fmt.Errorf("write %s: %w", name, err)
		}
		m.Programs = append(m.Programs, Entry{File: name, Seed: p.Seed})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return Manifest{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("write manifest: %w", err)
	}
	log.Infof("run %s: wrote %d programs to %s", m.RunID, len(programs), dir)
	return m, nil
}

// ReadManifest loads the manifest of a previous run.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}
