// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions selects where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath loads exactly this file; it must exist.
	ConfigFilePath string
	// ConfigDirPath replaces ConfigDir when looking for config.cue.
	ConfigDirPath string
}

// FileProvider loads config.cue files layered over defaults and
// ADDONSCOUT_* environment variables.
type FileProvider struct{}

// NewProvider returns a FileProvider.
func NewProvider() *FileProvider {
	return &FileProvider{}
}

// Load returns the effective configuration for opts.
func (p *FileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SourcePath reports the file Load reads for opts, or "" when only defaults
// and environment overrides apply.
func (p *FileProvider) SourcePath(opts LoadOptions) (string, error) {
	return resolvePath(opts)
}
