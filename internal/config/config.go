package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultDatabaseFilename is the index file name under the data directory.
const DefaultDatabaseFilename = "idup.db3"

// Config represents the main configuration for idup.
type Config struct {
	HostID     string           `toml:"host_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Database   DatabaseConfig   `toml:"database"`
	Scan       ScanConfig       `toml:"scan"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// DatabaseConfig locates the index.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type     string `toml:"type"`               // "sqlite" or "memory"
	DataDir  string `toml:"data_dir,omitempty"` // only used for type=sqlite
	Filename string `toml:"filename,omitempty"` // only used for type=sqlite
}

// Path returns the index file path for type=sqlite.
func (c DatabaseConfig) Path() string {
	name := c.Filename
	if name == "" {
		name = DefaultDatabaseFilename
	}
	return filepath.Join(c.DataDir, name)
}

// ScanConfig tunes the scan pipeline.
type ScanConfig struct {
	Workers int      `toml:"workers"` // 0 means one per CPU
	Ignore  []string `toml:"ignore"`
}

// VaultConfig represents configuration for a snapshot vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // S3-compatible stores such as MinIO

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig selects snapshot encryption and the age key pair paths.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config with the provided values and defaults
// derived from baseDir.
func NewConfig(hostID, baseDir string) *Config {
	return &Config{
		HostID:  hostID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:     "sqlite",
			DataDir:  baseDir,
			Filename: DefaultDatabaseFilename,
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "idup.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "idup.key"),
		},
	}
}

// fillDefaults sets every empty field that has a default.
func (c *Config) fillDefaults(defaults *Config) {
	if c.HostID == "" {
		c.HostID = defaults.HostID
	}
	if c.BaseDir == "" {
		c.BaseDir = defaults.BaseDir
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.BaseDir, "log")
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.DataDir == "" {
		c.Database.DataDir = c.BaseDir
	}
	if c.Database.Filename == "" {
		c.Database.Filename = DefaultDatabaseFilename
	}
	if c.Encryption.Type == "" {
		c.Encryption.Type = "none"
	}
	if c.Encryption.PublicKeyPath == "" {
		c.Encryption.PublicKeyPath = filepath.Join(c.BaseDir, "keys", "idup.pub")
	}
	if c.Encryption.PrivateKeyPath == "" {
		c.Encryption.PrivateKeyPath = filepath.Join(c.BaseDir, "keys", "idup.key")
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path and fills unset fields from defaults. A
// missing file is not an error: defaults are returned as they are.
func Load(path string, defaults *Config) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, nil
		}
		return nil, err
	}
	cfg.fillDefaults(defaults)
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
