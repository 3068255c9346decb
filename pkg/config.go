package audiodedupe

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-ini/ini"
)

// Config represents the audiodedupe configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// ScanConfig represents directory scanning configuration
type ScanConfig struct {
	Filter  string // Regular expression selecting candidate file names
	Workers int    // Concurrent fingerprint workers (0 = one per CPU)
}

// FingerprintConfig represents fingerprint provider configuration
type FingerprintConfig struct {
	Command string   // External fingerprint command
	Args    []string // Arguments placed before the file path
	Timeout int      // Per-invocation timeout in seconds
}

// CacheConfig represents fingerprint cache configuration
type CacheConfig struct {
	Enabled bool   // Whether the cache file is loaded and saved
	Dir     string // Directory holding the cache file
}

// ReportConfig represents duplicate report configuration
type ReportConfig struct {
	Format   string // Default output format: human, json
	ShowTags bool   // Decorate the human report with artist/title metadata
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// AllConfig represents all configuration options
type AllConfig struct {
	Scan        *ScanConfig
	Fingerprint *FingerprintConfig
	Cache       *CacheConfig
	Report      *ReportConfig
	Verbose     *VerboseConfig
}

// LoadConfig loads configuration from the config file inside configDir,
// creating a default one on first use
func LoadConfig(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, "config")

	cfg := &Config{
		configPath: configPath,
	}

	// Load existing config or create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		if err := os.MkdirAll(configDir, cacheDirMode); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	} else {
		// Load existing config
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	scanSection, err := c.ini.NewSection("scan")
	if err != nil {
		return fmt.Errorf("failed to create scan section: %w", err)
	}
	_, err = scanSection.NewKey("filter", DefaultFilesFilter)
	if err != nil {
		return fmt.Errorf("failed to set default files filter: %w", err)
	}
	_, err = scanSection.NewKey("workers", "0")
	if err != nil {
		return fmt.Errorf("failed to set default workers: %w", err)
	}

	fingerprintSection, err := c.ini.NewSection("fingerprint")
	if err != nil {
		return fmt.Errorf("failed to create fingerprint section: %w", err)
	}
	_, err = fingerprintSection.NewKey("command", DefaultFingerprintCmd)
	if err != nil {
		return fmt.Errorf("failed to set default fingerprint command: %w", err)
	}
	_, err = fingerprintSection.NewKey("args", strings.Join(DefaultFingerprintCmdArgs(), " "))
	if err != nil {
		return fmt.Errorf("failed to set default fingerprint args: %w", err)
	}
	_, err = fingerprintSection.NewKey("timeout", strconv.Itoa(int(DefaultFingerprintTimeout/time.Second)))
	if err != nil {
		return fmt.Errorf("failed to set default fingerprint timeout: %w", err)
	}

	cacheSection, err := c.ini.NewSection("cache")
	if err != nil {
		return fmt.Errorf("failed to create cache section: %w", err)
	}
	_, err = cacheSection.NewKey("enabled", "true")
	if err != nil {
		return fmt.Errorf("failed to set default cache enabled: %w", err)
	}
	_, err = cacheSection.NewKey("dir", DefaultCacheDir())
	if err != nil {
		return fmt.Errorf("failed to set default cache dir: %w", err)
	}

	reportSection, err := c.ini.NewSection("report")
	if err != nil {
		return fmt.Errorf("failed to create report section: %w", err)
	}
	_, err = reportSection.NewKey("format", OutputHuman)
	if err != nil {
		return fmt.Errorf("failed to set default report format: %w", err)
	}
	_, err = reportSection.NewKey("show_tags", "false")
	if err != nil {
		return fmt.Errorf("failed to set default show_tags: %w", err)
	}

	verboseSection, err := c.ini.NewSection("verbose")
	if err != nil {
		return fmt.Errorf("failed to create verbose section: %w", err)
	}
	_, err = verboseSection.NewKey("level", "0")
	if err != nil {
		return fmt.Errorf("failed to set default verbose level: %w", err)
	}
	_, err = verboseSection.NewKey("debug", "")
	if err != nil {
		return fmt.Errorf("failed to set default debug flags: %w", err)
	}

	return nil
}

// GetScanConfig returns the scan configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		Filter:  DefaultFilesFilter, // fallback default
		Workers: 0,                  // fallback default (one per CPU)
	}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("filter") {
			if filter := section.Key("filter").String(); filter != "" {
				scanConfig.Filter = filter
			}
		}
		if section.HasKey("workers") {
			if workers, err := section.Key("workers").Int(); err == nil {
				scanConfig.Workers = workers
			}
		}
	}

	return scanConfig
}

// GetFingerprintConfig returns the fingerprint provider configuration
func (c *Config) GetFingerprintConfig() *FingerprintConfig {
	fingerprintConfig := &FingerprintConfig{
		Command: DefaultFingerprintCmd,                        // fallback default
		Args:    DefaultFingerprintCmdArgs(),                  // fallback default
		Timeout: int(DefaultFingerprintTimeout / time.Second), // fallback default
	}

	if c.ini.HasSection("fingerprint") {
		section := c.ini.Section("fingerprint")
		if section.HasKey("command") {
			if command := section.Key("command").String(); command != "" {
				fingerprintConfig.Command = command
			}
		}
		if section.HasKey("args") {
			if args := section.Key("args").Strings(" "); len(args) > 0 {
				fingerprintConfig.Args = args
			}
		}
		if section.HasKey("timeout") {
			if timeout, err := section.Key("timeout").Int(); err == nil {
				fingerprintConfig.Timeout = timeout
			}
		}
	}

	return fingerprintConfig
}

// GetCacheConfig returns the cache configuration
func (c *Config) GetCacheConfig() *CacheConfig {
	cacheConfig := &CacheConfig{
		Enabled: true,              // fallback default
		Dir:     DefaultCacheDir(), // fallback default
	}

	if c.ini.HasSection("cache") {
		section := c.ini.Section("cache")
		if section.HasKey("enabled") {
			if enabled, err := section.Key("enabled").Bool(); err == nil {
				cacheConfig.Enabled = enabled
			}
		}
		if section.HasKey("dir") {
			if dir := section.Key("dir").String(); dir != "" {
				cacheConfig.Dir = dir
			}
		}
	}

	return cacheConfig
}

// GetReportConfig returns the report configuration
func (c *Config) GetReportConfig() *ReportConfig {
	reportConfig := &ReportConfig{
		Format:   OutputHuman, // fallback default
		ShowTags: false,       // fallback default
	}

	if c.ini.HasSection("report") {
		section := c.ini.Section("report")
		if section.HasKey("format") {
			if format := section.Key("format").String(); format != "" {
				reportConfig.Format = format
			}
		}
		if section.HasKey("show_tags") {
			if showTags, err := section.Key("show_tags").Bool(); err == nil {
				reportConfig.ShowTags = showTags
			}
		}
	}

	return reportConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Scan:        c.GetScanConfig(),
		Fingerprint: c.GetFingerprintConfig(),
		Cache:       c.GetCacheConfig(),
		Report:      c.GetReportConfig(),
		Verbose:     c.GetVerboseConfig(),
	}
}

// Options converts the file-backed configuration into Deduper options.
// Command-line flags overlay the result afterwards.
func (c *Config) Options() Options {
	all := c.GetAllConfig()
	return Options{
		DisableCache:          !all.Cache.Enabled,
		CacheDir:              all.Cache.Dir,
		FilesFilter:           all.Scan.Filter,
		FingerprintCmd:        all.Fingerprint.Command,
		FingerprintCmdArgs:    all.Fingerprint.Args,
		FingerprintCmdTimeout: time.Duration(all.Fingerprint.Timeout) * time.Second,
		Workers:               all.Scan.Workers,
		ShowTags:              all.Report.ShowTags,
	}
}

// Validate validates all configuration options
func (c *Config) Validate() error {
	all := c.GetAllConfig()

	if err := ValidateFilesFilter(all.Scan.Filter); err != nil {
		return err
	}
	if err := ValidateWorkers(all.Scan.Workers); err != nil {
		return err
	}
	if err := ValidateTimeout(all.Fingerprint.Timeout); err != nil {
		return err
	}
	if err := ValidateOutputFormat(all.Report.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	if err := ValidateDebugFlags(all.Verbose.Debug); err != nil {
		return err
	}

	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	return c.ini.SaveTo(c.configPath)
}

// ValidateFilesFilter validates that the files filter compiles as a regular expression
func ValidateFilesFilter(filter string) error {
	if _, err := regexp.Compile(filter); err != nil {
		return fmt.Errorf("invalid files filter %q: %w", filter, err)
	}
	return nil
}

// ValidateWorkers validates that the worker count is reasonable (0 = one per CPU)
func ValidateWorkers(workers int) error {
	if workers < 0 {
		return fmt.Errorf("workers must not be negative, got: %d", workers)
	}
	if workers > 256 {
		return fmt.Errorf("workers should not exceed 256, got: %d", workers)
	}
	return nil
}

// ValidateTimeout validates that the fingerprint timeout is positive
func ValidateTimeout(seconds int) error {
	if seconds < 1 {
		return fmt.Errorf("fingerprint timeout must be at least 1 second, got: %d", seconds)
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case OutputHuman, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateDebugFlags validates debug flags (lenient - allows any comma-separated values)
func ValidateDebugFlags(debug string) error {
	// For now, allow any debug flags - validation can be enhanced later
	return nil
}
