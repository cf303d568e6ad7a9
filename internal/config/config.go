package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	projecterrors "github.com/gateplane-io/aci-cli/pkg/errors"
)

// Config represents the main configuration structure for acictl
type Config struct {
	Defaults      DefaultsConfig           `yaml:"defaults"`
	Logging       LoggingConfig            `yaml:"logging"`
	Suggestions   Suggestions              `yaml:"suggestions"`
	Profiles      map[string]ProfileConfig `yaml:"profiles" validate:"dive"`
	ActiveProfile string                   `mapstructure:"active_profile" yaml:"active_profile,omitempty"`
}

// DefaultsConfig contains default values for CLI operations
type DefaultsConfig struct {
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" validate:"omitempty,oneof=table json yaml text"`
	// Combinator joins bind rules when the parsed text does not say.
	Combinator string `yaml:"combinator" validate:"omitempty,oneof=and or"`
}

// LoggingConfig controls the stderr logger
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Suggestions are directory schema values offered by the interactive builder.
type Suggestions struct {
	Attributes  []string `yaml:"attributes,omitempty"`
	Controls    []string `yaml:"controls,omitempty"`
	ExtendedOps []string `mapstructure:"extended_ops" yaml:"extended_ops,omitempty"`
}

// ProfileConfig describes one directory server
type ProfileConfig struct {
	Description string      `yaml:"description,omitempty"`
	BaseDN      string      `mapstructure:"base_dn" yaml:"base_dn,omitempty"`
	Suggestions Suggestions `yaml:"suggestions,omitempty"`
}

// Suggestion kinds accepted by AddSuggestion
const (
	SuggestAttribute = "attribute"
	SuggestControl   = "control"
	SuggestExtop     = "extop"
)

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "ACICTL_CONFIG_DIR"

var (
	cfg        *Config
	v          *viper.Viper
	configFile string
	validate   = validator.New(validator.WithRequiredStructEnabled())
)

func defaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			OutputFormat: "table",
			Combinator:   "and",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Dir returns the configuration directory
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".acictl"), nil
}

// Init initializes the configuration system by creating config directory and loading config file
func Init() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return InitAt(dir)
}

// InitAt loads configuration from dir, writing defaults when no file exists yet
func InitAt(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile = filepath.Join(configDir, "config.yaml")

	v = viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	def := defaultConfig()
	v.SetDefault("defaults.output_format", def.Defaults.OutputFormat)
	v.SetDefault("defaults.combinator", def.Defaults.Combinator)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	// ACICTL_DEFAULTS_OUTPUT_FORMAT, ACICTL_LOGGING_LEVEL, ...
	v.SetEnvPrefix("ACICTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		cfg = def
		return SaveConfig()
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// Validate checks a configuration against its field constraints
func Validate(c *Config) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.ActiveProfile != "" {
		if _, ok := c.Profiles[c.ActiveProfile]; !ok {
			return fmt.Errorf("invalid configuration: active profile %q: %w", c.ActiveProfile, projecterrors.ErrProfileNotFound)
		}
	}
	return nil
}

// GetConfig returns the current configuration, initializing it if necessary
func GetConfig() *Config {
	if cfg == nil {
		if err := Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
			cfg = defaultConfig()
		}
	}
	return cfg
}

// File returns the path of the loaded configuration file
func File() string {
	return configFile
}

// SaveConfig saves the current configuration to disk
func SaveConfig() error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("configuration not initialized")
	}

	v.Set("defaults", map[string]any{
		"output_format": cfg.Defaults.OutputFormat,
		"combinator":    cfg.Defaults.Combinator,
	})
	v.Set("logging", map[string]any{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	})
	v.Set("suggestions", suggestionsMap(cfg.Suggestions))

	profiles := make(map[string]any, len(cfg.Profiles))
	for name, p := range cfg.Profiles {
		profiles[name] = map[string]any{
			"description": p.Description,
			"base_dn":     p.BaseDN,
			"suggestions": suggestionsMap(p.Suggestions),
		}
	}
	v.Set("profiles", profiles)
	v.Set("active_profile", cfg.ActiveProfile)

	return v.WriteConfigAs(configFile)
}

func suggestionsMap(s Suggestions) map[string]any {
	return map[string]any{
		"attributes":   s.Attributes,
		"controls":     s.Controls,
		"extended_ops": s.ExtendedOps,
	}
}

// SetOutputFormat updates the default output format and saves it
func SetOutputFormat(format string) error {
	old := cfg.Defaults.OutputFormat
	cfg.Defaults.OutputFormat = format
	if err := SaveConfig(); err != nil {
		cfg.Defaults.OutputFormat = old
		return err
	}
	return nil
}

// SetCombinator updates the default bind rule combinator and saves it
func SetCombinator(combinator string) error {
	old := cfg.Defaults.Combinator
	cfg.Defaults.Combinator = strings.ToLower(combinator)
	if err := SaveConfig(); err != nil {
		cfg.Defaults.Combinator = old
		return err
	}
	return nil
}

// AddSuggestion records a value for the interactive builder. The value goes to
// the active profile when one is selected.
func AddSuggestion(kind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("empty suggestion")
	}

	if cfg.ActiveProfile == "" {
		if err := cfg.Suggestions.add(kind, value); err != nil {
			return err
		}
		return SaveConfig()
	}

	profile := cfg.Profiles[cfg.ActiveProfile]
	if err := profile.Suggestions.add(kind, value); err != nil {
		return err
	}
	cfg.Profiles[cfg.ActiveProfile] = profile
	return SaveConfig()
}

func (s *Suggestions) add(kind, value string) error {
	var list *[]string
	switch strings.ToLower(kind) {
	case SuggestAttribute, "attr", "attributes":
		list = &s.Attributes
	case SuggestControl, "controls":
		list = &s.Controls
	case SuggestExtop, "extops", "extended_op":
		list = &s.ExtendedOps
	default:
		return fmt.Errorf("unknown suggestion kind %q (use %s, %s or %s)", kind, SuggestAttribute, SuggestControl, SuggestExtop)
	}
	if !slices.Contains(*list, value) {
		*list = append(*list, value)
	}
	return nil
}

// AddProfile adds or replaces a profile and saves it
func AddProfile(name string, profile ProfileConfig) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty profile name")
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]ProfileConfig)
	}
	cfg.Profiles[name] = profile
	return SaveConfig()
}

// UseProfile switches to the specified configuration profile and saves the changes.
// An empty name clears the selection.
func UseProfile(profileName string) error {
	if profileName != "" {
		if _, ok := cfg.Profiles[profileName]; !ok {
			return fmt.Errorf("profile %s: %w", profileName, projecterrors.ErrProfileNotFound)
		}
	}
	cfg.ActiveProfile = profileName
	return SaveConfig()
}

// ActiveProfile returns the selected profile, if any
func ActiveProfile() (ProfileConfig, bool) {
	c := GetConfig()
	if c.ActiveProfile == "" {
		return ProfileConfig{}, false
	}
	p, ok := c.Profiles[c.ActiveProfile]
	return p, ok
}

// EffectiveSuggestions merges the global suggestions with the active profile's,
// sorted and without duplicates.
func EffectiveSuggestions() Suggestions {
	c := GetConfig()
	out := Suggestions{
		Attributes:  append([]string(nil), c.Suggestions.Attributes...),
		Controls:    append([]string(nil), c.Suggestions.Controls...),
		ExtendedOps: append([]string(nil), c.Suggestions.ExtendedOps...),
	}
	if p, ok := ActiveProfile(); ok {
		out.Attributes = append(out.Attributes, p.Suggestions.Attributes...)
		out.Controls = append(out.Controls, p.Suggestions.Controls...)
		out.ExtendedOps = append(out.ExtendedOps, p.Suggestions.ExtendedOps...)
	}
	out.Attributes = uniqueSorted(out.Attributes)
	out.Controls = uniqueSorted(out.Controls)
	out.ExtendedOps = uniqueSorted(out.ExtendedOps)
	return out
}

func uniqueSorted(values []string) []string {
	sort.Strings(values)
	return slices.Compact(values)
}
