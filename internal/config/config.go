package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Paths     []string  `toml:"paths"`
	Exclude   Exclude   `toml:"exclude"`
	Watch     Watch     `toml:"watch"`
	Output    Output    `toml:"output"`
	History   History   `toml:"history"`
	Metrics   Metrics   `toml:"metrics"`
	Registry  Registry  `toml:"registry"`
	Rules     Rules     `toml:"rules"`
	Manifest  string    `toml:"manifest"` // path to pyproject.toml, empty disables dependency checks
	Pyproject Pyproject `toml:"pyproject"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	SARIF string `toml:"sarif"`
	Color bool   `toml:"color"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Metrics struct {
	Addr string `toml:"addr"` // e.g. ":9091", empty disables the /metrics server
}

// Pyproject tunes the dependency checks run against the manifest.
type Pyproject struct {
	// Distributions extends the built-in import-name to distribution-name
	// table, e.g. cv2 = "opencv-python".
	Distributions map[string]string `toml:"distributions"`
}

type Registry struct {
	PyPIBaseURL    string        `toml:"pypi_base_url"`
	GitHubBaseURL  string        `toml:"github_base_url"`
	MaxAge         time.Duration `toml:"max_age"` // releases older than this count as unmaintained
	RequestTimeout time.Duration `toml:"request_timeout"`
	RatePerSecond  float64       `toml:"rate_per_second"`
	Burst          int           `toml:"burst"`
	Parallelism    int           `toml:"parallelism"`
}

// Rules groups the per-family option tables. Each table is decoded once at
// startup and passed by reference into the traversal; rules never mutate it.
type Rules struct {
	DirectImports    DirectImports    `toml:"direct_imports"`
	MixedArgs        MixedArgs        `toml:"no_mixed_args"`
	Signatures       Signatures       `toml:"signatures"`
	DunderAll        DunderAll        `toml:"dunder_all"`
	Typing           Typing           `toml:"typing"`
	StandardGenerics StandardGenerics `toml:"standard_generics"`
	RuntimeProtocol  RuntimeProtocol  `toml:"runtime_data_protocol"`
	CleanInterface   CleanInterface   `toml:"clean_interface"`
}

type DirectImports struct {
	Enabled           bool `toml:"enabled"`
	SkipAssignTargets bool `toml:"skip_assign_targets"`
}

type MixedArgs struct {
	Enabled          bool     `toml:"enabled"`
	AllowOne         bool     `toml:"allow_one"`
	AllowTwo         bool     `toml:"allow_two"`
	IgnoreDunder     bool     `toml:"ignore_dunder"`
	IgnoreOverloads  bool     `toml:"ignore_overloads"`
	IgnorePrivate    bool     `toml:"ignore_private"`
	IgnoreWoPosOnly  bool     `toml:"ignore_without_positional_only"`
	IgnoreNames      []string `toml:"ignore_names"`
	IgnoreDecorators []string `toml:"ignore_decorators"`
}

type Signatures struct {
	Enabled            bool     `toml:"enabled"`
	AllowMixedArgs     bool     `toml:"allow_mixed_args"`
	MaxArgs            int      `toml:"max_args"`
	MaxPositionalArgs  int      `toml:"max_positional_args"`
	CheckDunderPosOnly bool     `toml:"check_dunder_positional_only"`
	IgnoreDunder       bool     `toml:"ignore_dunder"`
	IgnoreOverloads    bool     `toml:"ignore_overloads"`
	IgnorePrivate      bool     `toml:"ignore_private"`
	IgnoreNames        []string `toml:"ignore_names"`
	IgnoreDecorators   []string `toml:"ignore_decorators"`
}

type DunderAll struct {
	Enabled                 bool `toml:"enabled"`
	AllowMissing            bool `toml:"allow_missing"`
	WarnNonLiteral          bool `toml:"warn_non_literal"`
	WarnAnnotated           bool `toml:"warn_annotated"`
	WarnLocation            bool `toml:"warn_location"`
	WarnSuperfluous         bool `toml:"warn_superfluous"`
	WarnMultipleDefinitions bool `toml:"warn_multiple_definitions"`
	WarnDuplicateKeys       bool `toml:"warn_duplicate_keys"`
}

type Typing struct {
	Enabled                        bool `toml:"enabled"`
	CheckPEP604Union               bool `toml:"check_pep604_union"`
	CheckNoOptional                bool `toml:"check_no_optional"`
	CheckOptional                  bool `toml:"check_optional"`
	CheckNoFutureAnnotations       bool `toml:"check_no_future_annotations"`
	CheckOverloadDefaultEllipsis   bool `toml:"check_overload_default_ellipsis"`
	CheckNoHintsOverloadImpl       bool `toml:"check_no_hints_overload_implementation"`
	CheckNoReturnUnion             bool `toml:"check_no_return_union"`
	CheckNoReturnUnionRecursive    bool `toml:"check_no_return_union_recursive"`
	IncludeOverloadImplementations bool `toml:"include_overload_implementations"`
	CheckNoUnionIsinstance         bool `toml:"check_no_union_isinstance"`
	CheckNoTupleIsinstance         bool `toml:"check_no_tuple_isinstance"`
}

type StandardGenerics struct {
	Enabled  bool `toml:"enabled"`
	UseNever bool `toml:"use_never"`
}

type RuntimeProtocol struct {
	Enabled bool `toml:"enabled"`
}

type CleanInterface struct {
	Enabled         bool `toml:"enabled"`
	WarnSuperfluous bool `toml:"warn_superfluous"`
}

func Default() *Config {
	return &Config{
		Paths: []string{"."},
		Exclude: Exclude{
			Dirs: []string{".git", ".venv", "__pycache__", "node_modules"},
		},
		Watch:  Watch{Debounce: 500 * time.Millisecond},
		Output: Output{Color: true},
		Registry: Registry{
			PyPIBaseURL:    "https://pypi.org",
			GitHubBaseURL:  "https://api.github.com",
			MaxAge:         4 * 365 * 24 * time.Hour,
			RequestTimeout: 10 * time.Second,
			RatePerSecond:  5,
			Burst:          5,
			Parallelism:    8,
		},
		Rules: Rules{
			DirectImports: DirectImports{Enabled: true, SkipAssignTargets: true},
			MixedArgs: MixedArgs{
				Enabled:         true,
				IgnoreOverloads: true,
				IgnorePrivate:   true,
			},
			Signatures: Signatures{
				Enabled:            true,
				AllowMixedArgs:     true,
				MaxArgs:            2,
				MaxPositionalArgs:  3,
				CheckDunderPosOnly: true,
				IgnorePrivate:      true,
				IgnoreOverloads:    true,
			},
			DunderAll: DunderAll{
				Enabled:                 true,
				AllowMissing:            true,
				WarnNonLiteral:          true,
				WarnAnnotated:           true,
				WarnLocation:            true,
				WarnMultipleDefinitions: true,
				WarnDuplicateKeys:       true,
			},
			Typing: Typing{
				Enabled:                      true,
				CheckPEP604Union:             true,
				CheckNoOptional:              true,
				CheckNoFutureAnnotations:     true,
				CheckOverloadDefaultEllipsis: true,
			},
			StandardGenerics: StandardGenerics{Enabled: true, UseNever: true},
			RuntimeProtocol:  RuntimeProtocol{Enabled: true},
			CleanInterface:   CleanInterface{WarnSuperfluous: true},
		},
	}
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys in %q: %v", path, undecoded)
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}

	return cfg, nil
}
