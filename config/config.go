// Package config provides configuration parsing for hatstats.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the hatstats configuration.
type Config struct {
	// Refresh is a duration string (e.g. "2s") between render passes.
	Refresh string `yaml:"refresh"`

	// SampleTimeout is a duration string bounding each metric query.
	SampleTimeout string `yaml:"sample_timeout"`

	// LogFile is the path for log output; empty logs to stderr.
	LogFile string `yaml:"log_file"`

	// Service holds the watched background service settings.
	Service ServiceConfig `yaml:"service"`

	// Storage holds the reported filesystem paths.
	Storage StorageConfig `yaml:"storage"`

	// Graphs holds the graph scaling policy.
	Graphs GraphsConfig `yaml:"graphs"`

	// Backlight holds the static backlight color.
	Backlight BacklightConfig `yaml:"backlight"`

	// Display holds the LCD wiring.
	Display DisplayConfig `yaml:"display"`

	// Input holds the touch button wiring.
	Input InputConfig `yaml:"input"`
}

// ServiceConfig holds the watched background service settings.
type ServiceConfig struct {
	// Name is the systemd unit / process name whose liveness is shown.
	Name string `yaml:"name"`
	// Label is the display name on the status page; defaults to Name.
	Label string `yaml:"label"`
	// Port is shown next to the label while the service is running.
	Port int `yaml:"port"`
}

// StorageConfig holds the reported filesystem paths.
type StorageConfig struct {
	// Root is the root filesystem mount point.
	Root string `yaml:"root"`
	// Mount is the secondary mount point; may be unmounted.
	Mount string `yaml:"mount"`
	// MountLabel names the secondary mount on the capacity page.
	MountLabel string `yaml:"mount_label"`
}

// GraphsConfig holds the graph scaling policy. The defaults are the
// historical choices (100% CPU, 1000 KB/s network reference); they
// live here so a deployment can retune them without rebuilding.
type GraphsConfig struct {
	// CPUCeiling is the CPU percentage mapped to full graph height.
	CPUCeiling float64 `yaml:"cpu_ceiling"`
	// NetRefKBps is the network rate in KB/s mapped to full graph height.
	NetRefKBps float64 `yaml:"net_ref_kbps"`
}

// BacklightConfig holds the static backlight color set at startup.
type BacklightConfig struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// DisplayConfig holds the LCD wiring.
type DisplayConfig struct {
	// SPIPort is the SPI port name.
	SPIPort string `yaml:"spi_port"`
	// DCPin is the data/command select GPIO name.
	DCPin string `yaml:"dc_pin"`
	// ResetPin is the controller reset GPIO name.
	ResetPin string `yaml:"reset_pin"`
	// Contrast is the panel EV value, 0-63.
	Contrast uint8 `yaml:"contrast"`
}

// InputConfig holds the touch button wiring.
type InputConfig struct {
	// I2CBus is the I2C bus name shared by touch and backlight;
	// empty selects the first available.
	I2CBus string `yaml:"i2c_bus"`
	// PrevChannel is the touch channel for the previous-page button.
	PrevChannel int `yaml:"prev_channel"`
	// NextChannel is the touch channel for the next-page button.
	NextChannel int `yaml:"next_channel"`
}

// DefaultConfig returns a Config populated with the GFX HAT defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Refresh:       "2s",
		SampleTimeout: "900ms",
		LogFile:       filepath.Join(home, ".local", "log", "hatstats.log"),
		Service: ServiceConfig{
			Name:  "copyparty",
			Label: "Copyparty",
			Port:  8080,
		},
		Storage: StorageConfig{
			Root:       "/",
			Mount:      "/mnt/storage",
			MountLabel: "NVMe",
		},
		Graphs: GraphsConfig{
			CPUCeiling: 100,
			NetRefKBps: 1000,
		},
		Backlight: BacklightConfig{R: 190, G: 190, B: 190},
		Display: DisplayConfig{
			SPIPort:  "SPI0.0",
			DCPin:    "GPIO6",
			ResetPin: "GPIO5",
			Contrast: 58,
		},
		Input: InputConfig{
			PrevChannel: 3,
			NextChannel: 5,
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with
// defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if config.Service.Label == "" {
		config.Service.Label = config.Service.Name
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical
// consistency.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Refresh); err != nil {
		return fmt.Errorf("refresh must be a duration (e.g. \"2s\"), got %q", c.Refresh)
	}
	if _, err := time.ParseDuration(c.SampleTimeout); err != nil {
		return fmt.Errorf("sample_timeout must be a duration, got %q", c.SampleTimeout)
	}
	if c.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root is required")
	}
	if c.Graphs.CPUCeiling <= 0 {
		return fmt.Errorf("graphs.cpu_ceiling must be positive, got %g", c.Graphs.CPUCeiling)
	}
	if c.Graphs.NetRefKBps <= 0 {
		return fmt.Errorf("graphs.net_ref_kbps must be positive, got %g", c.Graphs.NetRefKBps)
	}
	if c.Display.Contrast > 63 {
		return fmt.Errorf("display.contrast must be 0-63, got %d", c.Display.Contrast)
	}
	if c.Input.PrevChannel < 0 || c.Input.PrevChannel > 5 {
		return fmt.Errorf("input.prev_channel must be 0-5, got %d", c.Input.PrevChannel)
	}
	if c.Input.NextChannel < 0 || c.Input.NextChannel > 5 {
		return fmt.Errorf("input.next_channel must be 0-5, got %d", c.Input.NextChannel)
	}
	if c.Input.PrevChannel == c.Input.NextChannel {
		return fmt.Errorf("input.prev_channel and input.next_channel must differ")
	}
	return nil
}

// RefreshInterval returns the parsed refresh period, falling back to
// 2s for an unparsable value.
func (c *Config) RefreshInterval() time.Duration {
	return parseDuration(c.Refresh, 2*time.Second)
}

// SampleTimeoutDuration returns the parsed per-query timeout, falling
// back to 900ms for an unparsable value.
func (c *Config) SampleTimeoutDuration() time.Duration {
	return parseDuration(c.SampleTimeout, 900*time.Millisecond)
}

// parseDuration parses a duration string with a fallback.
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
