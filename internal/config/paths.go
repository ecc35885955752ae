package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathsConfig contains the file system layout of a run. All collector
// artifacts live under DataDir:
//
//	data/
//	  ├── input/        company list files
//	  ├── output/       per (stock_code, year) ratio CSVs
//	  ├── raw/          raw statement JSON (when --save-raw without S3)
//	  └── corpCode.xml  cached corp-code lookup table
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	RawDir    string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

func (p *PathsConfig) applyDefaults() {
	if p.DataDir == "" {
		p.DataDir = "data"
	}
	if p.InputDir == "" {
		p.InputDir = filepath.Join(p.DataDir, "input")
	}
	if p.OutputDir == "" {
		p.OutputDir = filepath.Join(p.DataDir, "output")
	}
	if p.RawDir == "" {
		p.RawDir = filepath.Join(p.DataDir, "raw")
	}
	if p.LogsDir == "" {
		p.LogsDir = "logs"
	}
}

// CorpCodePath returns the location of the cached corpCode.xml.
func (p *PathsConfig) CorpCodePath() string {
	return filepath.Join(p.DataDir, "corpCode.xml")
}

// LogPath returns the path of a named log file under the logs directory.
func (p *PathsConfig) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates the directory tree a run needs. RawDir is
// only created when raw archival is requested.
func (p *PathsConfig) EnsureDirectories(saveRaw bool) error {
	dirs := []string{p.DataDir, p.InputDir, p.OutputDir, p.LogsDir}
	if saveRaw {
		dirs = append(dirs, p.RawDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
