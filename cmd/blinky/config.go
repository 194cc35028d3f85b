package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/b97tsk/coop"
)

// Config describes the demo board and its tasks. All periods are in ticks.
type Config struct {
	Tick      string  `yaml:"tick" toml:"tick"`
	BlinkRate uint32  `yaml:"blink_rate" toml:"blink_rate"`
	StopMask  uint32  `yaml:"stop_mask" toml:"stop_mask"`
	StackSize int     `yaml:"stack_size" toml:"stack_size"`
	LED1      Pattern `yaml:"led1" toml:"led1"`
	LED2      Pattern `yaml:"led2" toml:"led2"`
}

// Pattern is an on/off blink pattern.
type Pattern struct {
	On  uint32 `yaml:"on" toml:"on"`
	Off uint32 `yaml:"off" toml:"off"`
}

func defaultConfig() Config {
	return Config{
		Tick:      "62.5ms", // 2048 cycles of a 32768 Hz clock
		BlinkRate: 5,
		StopMask:  128,
		StackSize: 2040,
		LED1:      Pattern{On: 1, Off: 8},
		LED2:      Pattern{On: 1, Off: 7},
	}
}

// loadConfig decodes the file at path over cfg. Fields missing from the
// file keep their values.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	default:
		return fmt.Errorf("%s: unsupported config format %q", path, ext)
	}

	return cfg.validate()
}

func (cfg *Config) tickPeriod() (time.Duration, error) {
	d, err := time.ParseDuration(cfg.Tick)
	if err != nil {
		return 0, fmt.Errorf("tick: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tick: %v is not positive", d)
	}
	return d, nil
}

func (cfg *Config) validate() error {
	if _, err := cfg.tickPeriod(); err != nil {
		return err
	}
	if cfg.BlinkRate == 0 {
		return fmt.Errorf("blink_rate must be positive")
	}
	if cfg.StackSize < coop.MinStackSize {
		return fmt.Errorf("stack_size: %d is below the minimum of %d", cfg.StackSize, coop.MinStackSize)
	}
	return nil
}
