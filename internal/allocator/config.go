package allocator

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// Tuning constants from §4.5. MinThreshold is a floor: the collector never
// sets next_gc_threshold below it, regardless of how small the live set is.
const (
	MinThreshold     = 64 * 1024 // 64 KiB
	DefaultGrowthNum = 2
	DefaultGrowthDen = 1
	DefaultDebugAddr = ""
	DefaultLogLevel  = "info"
)

// Config carries the tunable collector parameters named in §3. The collector
// reads it through an atomic pointer indirection, never a cached copy: the
// growth ratio at every collection and the initial threshold whenever its
// counters are reset, so WatchConfig's swap needs no lock on the mutator's
// hot path (§4.15, §5). LogLevel and DebugAddr are carried but not read by
// the collector.
type Config struct {
	DebugAddr             string
	LogLevel              string
	InitialThresholdBytes uint64
	GrowthNumerator       uint64
	GrowthDenominator     uint64
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() *Config {
	return &Config{
		InitialThresholdBytes: MinThreshold,
		GrowthNumerator:       DefaultGrowthNum,
		GrowthDenominator:     DefaultGrowthDen,
		DebugAddr:             DefaultDebugAddr,
		LogLevel:              DefaultLogLevel,
	}
}

// atomicConfig holds the live, hot-reloadable configuration.
type atomicConfig struct {
	v atomic.Pointer[Config]
}

func (a *atomicConfig) load() *Config {
	if c := a.v.Load(); c != nil {
		return c
	}

	return DefaultConfig()
}

func (a *atomicConfig) store(c *Config) { a.v.Store(c) }

// LoadConfig parses a flat "key=value" file (one setting per line, '#'
// comments, blank lines ignored) into a Config. Unset keys take compiled-in
// defaults. This happens before init completes, so parse failures are
// returned as ordinary errors rather than panicking (§4.15, §7).
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("allocator: loading config %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("allocator: config %q line %d: expected key=value, got %q", path, lineNo, line)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if err := applyConfigKey(cfg, key, value); err != nil {
			return nil, fmt.Errorf("allocator: config %q line %d: %w", path, lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("allocator: reading config %q: %w", path, err)
	}

	return cfg, nil
}

func applyConfigKey(cfg *Config, key, value string) error {
	switch key {
	case "initial_threshold_bytes":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("initial_threshold_bytes: %w", err)
		}

		cfg.InitialThresholdBytes = n
	case "growth_numerator":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil || n == 0 {
			return fmt.Errorf("growth_numerator: must be a positive integer, got %q", value)
		}

		cfg.GrowthNumerator = n
	case "growth_denominator":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil || n == 0 {
			return fmt.Errorf("growth_denominator: must be a positive integer, got %q", value)
		}

		cfg.GrowthDenominator = n
	case "debug_addr":
		cfg.DebugAddr = value
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	return nil
}
