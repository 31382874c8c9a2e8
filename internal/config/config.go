package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/KIRKR101/Streamline/internal/transfer"
)

// Config holds operator-tunable defaults. Flags beat file values; the file
// beats built-in defaults.
type Config struct {
	ListenAddr   string
	AdminAddr    string
	ChunkSize    int
	MaxNameBytes uint32
	LogLevel     string
}

type fileConfig struct {
	ListenAddr     string `toml:"listen_addr"`
	AdminAddr      string `toml:"admin_addr"`
	ChunkSize      string `toml:"chunk_size"`
	ChunkSizeBytes int64  `toml:"chunk_size_bytes"`
	MaxNameBytes   int64  `toml:"max_name_bytes"`
	LogLevel       string `toml:"log_level"`
}

func Default() Config {
	return Config{
		ListenAddr:   "0.0.0.0:8080",
		ChunkSize:    transfer.DefaultChunkSize,
		MaxNameBytes: 4096,
		LogLevel:     "info",
	}
}

// Load reads a TOML config file, applying only the keys the file actually
// defines on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("chunk_size") {
		n, err := ParseSize(raw.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = n
	}
	if meta.IsDefined("chunk_size_bytes") {
		if raw.ChunkSizeBytes <= 0 {
			return Config{}, fmt.Errorf("chunk_size_bytes must be positive, got %d", raw.ChunkSizeBytes)
		}
		cfg.ChunkSize = int(raw.ChunkSizeBytes)
	}
	if meta.IsDefined("max_name_bytes") {
		if raw.MaxNameBytes <= 0 || raw.MaxNameBytes > 1<<20 {
			return Config{}, fmt.Errorf("max_name_bytes out of range: %d", raw.MaxNameBytes)
		}
		cfg.MaxNameBytes = uint32(raw.MaxNameBytes)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

// ParseSize reads a byte count with an optional KiB/MiB suffix, e.g.
// "65536", "512KiB", "1MiB".
func ParseSize(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	mult := 1
	switch {
	case strings.HasSuffix(v, "MiB"):
		mult = 1 << 20
		v = strings.TrimSuffix(v, "MiB")
	case strings.HasSuffix(v, "KiB"):
		mult = 1 << 10
		v = strings.TrimSuffix(v, "KiB")
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("size must be positive, got %q", raw)
	}
	return n * mult, nil
}
