// SPDX-License-Identifier: MIT

package manifest

// DefaultPath is the well-known manifest location relative to the project root.
const DefaultPath = ".km77/km77.yaml"

// Document is the fully parsed, validated in-memory representation of the
// manifest file. It is immutable after Load.
type Document struct {
	Version  string        `yaml:"version"`
	CLI      CliConfig     `yaml:"cli,omitempty"`
	Plugins  PluginConfig  `yaml:"plugins,omitempty"`
	Runtimes RuntimeConfig `yaml:"runtimes,omitempty"`
	Lint     LintConfig    `yaml:"lint,omitempty"`
	Actions  ActionConfig  `yaml:"actions,omitempty"`
}

// CliConfig pins the host CLI version.
type CliConfig struct {
	Version string `yaml:"version,omitempty"`
}

// PluginConfig lists external plugin sources. Order is preserved: any
// behavior derived from the sources must be reproducible across loads.
type PluginConfig struct {
	Sources []PluginSource `yaml:"sources,omitempty"`
}

// PluginSource registers an external extension by identifier, version
// reference and retrieval location. IDs are unique within the sequence.
type PluginSource struct {
	ID  string `yaml:"id"`
	Ref string `yaml:"ref"`
	URI string `yaml:"uri"`
}

// RuntimeConfig declares external language/tool version dependencies,
// each as "name@version".
type RuntimeConfig struct {
	Enabled []string `yaml:"enabled,omitempty"`
}

// LintConfig selects record linters, each as "name" or "name@version",
// and caps the size of page sources the pipeline will store.
type LintConfig struct {
	// DefaultMaxFileSize is a byte limit; nil means no explicit limit was
	// configured. When present it must be positive.
	DefaultMaxFileSize *int64   `yaml:"default_max_file_size,omitempty"`
	Enabled            []string `yaml:"enabled,omitempty"`
}

// ActionConfig selects lifecycle automation hooks by name.
type ActionConfig struct {
	Enabled []string `yaml:"enabled,omitempty"`
}

// MaxFileSize returns the configured page-source size cap, or fallback
// when the manifest does not set one.
func (l LintConfig) MaxFileSize(fallback int64) int64 {
	if l.DefaultMaxFileSize == nil {
		return fallback
	}
	return *l.DefaultMaxFileSize
}

// applyDefaults fills absent optional collections with empty (non-nil)
// slices so callers can range over them without nil checks.
func (d *Document) applyDefaults() {
	if d.Plugins.Sources == nil {
		d.Plugins.Sources = []PluginSource{}
	}
	if d.Runtimes.Enabled == nil {
		d.Runtimes.Enabled = []string{}
	}
	if d.Lint.Enabled == nil {
		d.Lint.Enabled = []string{}
	}
	if d.Actions.Enabled == nil {
		d.Actions.Enabled = []string{}
	}
}
