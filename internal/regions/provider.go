package regions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNoConfig is returned by Lookup when no configuration file matches the
// requested resolution, or no directory was configured.
var ErrNoConfig = errors.New("no region configuration for resolution")

// maxConfigSize bounds how much of a configuration file is read.
const maxConfigSize = 1 << 20

// Config is the on-disk region configuration for one resolution.
type Config struct {
	Version      string `json:"version"`
	Resolution   string `json:"resolution"`
	ZwiftVersion string `json:"zwift_version"`
	Created      string `json:"created,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Regions      Set    `json:"regions"`

	// Path is the file the configuration was read from.
	Path string `json:"-"`
}

// Source says where a resolved region set came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceDefaults Source = "defaults"
)

// Resolved is a complete region set ready for extraction.
type Resolved struct {
	Regions Set
	Source  Source

	// Config is the file-backed configuration, nil when Source is defaults.
	Config *Config
}

// LoadFile reads and validates a region configuration file.
func LoadFile(path string) (*Config, error) {
	clean := filepath.Clean(path)
	if ext := filepath.Ext(clean); ext != ".json" {
		return nil, fmt.Errorf("region config must have .json extension, got %q", ext)
	}

	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to stat region config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("region config too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read region config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse region config %s: %w", clean, err)
	}
	if len(cfg.Regions) == 0 {
		return nil, fmt.Errorf("region config %s defines no regions", clean)
	}
	for name, r := range cfg.Regions {
		if r.Empty() || r.X < 0 || r.Y < 0 {
			return nil, fmt.Errorf("region config %s: invalid region %q %s", clean, name, r)
		}
	}
	cfg.Path = clean
	return &cfg, nil
}

// FindFile returns the first .json file in dir, by name order, whose name
// starts with the resolution key. Anything after the key is informational.
func FindFile(dir string, width, height int) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read region directory: %w", err)
	}

	prefix := ResolutionKey(width, height)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && filepath.Ext(name) == ".json" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w %s in %s", ErrNoConfig, prefix, dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// cacheEntry memoizes one lookup, including a miss.
type cacheEntry struct {
	cfg *Config
	err error
}

// Provider resolves region sets and memoizes loaded configurations.
//
// Provider is safe for concurrent use. Loaded configurations are never
// mutated; Reload and Replace swap whole cache entries.
type Provider struct {
	dir string
	log *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewProvider creates a provider reading configuration files from dir. An
// empty dir means only compiled-in defaults are used.
func NewProvider(dir string, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		dir:   dir,
		log:   log.Named("regions"),
		cache: make(map[string]cacheEntry),
	}
}

// Dir returns the configuration directory, possibly empty.
func (p *Provider) Dir() string {
	return p.dir
}

// Lookup returns the file-backed configuration for a resolution. The first
// call per resolution reads the directory; later calls reuse the result.
// ErrNoConfig means no file matched; any other error is a broken directory
// or file. Both are recoverable.
func (p *Provider) Lookup(width, height int) (*Config, error) {
	key := ResolutionKey(width, height)

	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, ok := p.cache[key]; ok {
		return entry.cfg, entry.err
	}

	cfg, err := p.load(width, height)
	p.cache[key] = cacheEntry{cfg: cfg, err: err}
	return cfg, err
}

func (p *Provider) load(width, height int) (*Config, error) {
	if p.dir == "" {
		return nil, ErrNoConfig
	}
	path, err := FindFile(p.dir, width, height)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	p.log.Debug("loaded region config",
		zap.String("path", cfg.Path),
		zap.String("resolution", cfg.Resolution),
		zap.String("zwift_version", cfg.ZwiftVersion),
		zap.Int("regions", len(cfg.Regions)))
	return cfg, nil
}

// Reload drops the memoized entry for a resolution and looks it up again.
func (p *Provider) Reload(width, height int) (*Config, error) {
	p.mu.Lock()
	delete(p.cache, ResolutionKey(width, height))
	p.mu.Unlock()
	return p.Lookup(width, height)
}

// Replace installs cfg for a resolution, replacing whatever was cached.
func (p *Provider) Replace(width, height int, cfg *Config) {
	p.mu.Lock()
	p.cache[ResolutionKey(width, height)] = cacheEntry{cfg: cfg}
	p.mu.Unlock()
}

// Resolve returns a complete region set for a resolution. Fields missing from
// the configuration file, or every field when there is no usable file, come
// from the compiled-in defaults. Resolve never fails.
func (p *Provider) Resolve(width, height int) Resolved {
	defaults := Defaults(width, height)

	cfg, err := p.Lookup(width, height)
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			p.log.Debug("no region config, using defaults",
				zap.String("resolution", ResolutionKey(width, height)))
		} else {
			p.log.Warn("region config unusable, using defaults",
				zap.String("resolution", ResolutionKey(width, height)),
				zap.Error(err))
		}
		return Resolved{Regions: defaults, Source: SourceDefaults}
	}

	merged := make(Set, len(defaults))
	for name, r := range defaults {
		merged[name] = r
	}
	for name, r := range cfg.Regions {
		merged[name] = r
	}
	return Resolved{Regions: merged, Source: SourceFile, Config: cfg}
}

var (
	sharedMu        sync.Mutex
	sharedProviders = map[string]*Provider{}
)

// Shared returns the process-wide provider for dir, creating it on first use.
// Every caller asking for the same directory shares one cache.
func Shared(dir string, log *zap.Logger) *Provider {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if p, ok := sharedProviders[dir]; ok {
		return p
	}
	p := NewProvider(dir, log)
	sharedProviders[dir] = p
	return p
}
