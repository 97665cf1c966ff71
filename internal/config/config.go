package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magic-cli-dev/magic/internal/branding"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys. Each is also readable from the environment as
// <EnvPrefix>_<KEY>, e.g. MAGIC_CLI_TARGET_PATH.
const (
	KeyHome                = "home"
	KeyHomePath            = "home_path"
	KeyTargetPath          = "target_path"
	KeyRegistry            = "registry"
	KeyUseOriginalRegistry = "use_original_registry"
	KeyLogLevel            = "log_level"
	KeyDebug               = "debug"
	KeyCommands            = "commands"
)

// ErrNoUserHome is returned when the current user's home directory cannot be
// determined or does not exist.
var ErrNoUserHome = errors.New("user home directory does not exist")

// Settings is the resolved configuration for one invocation. It is built once
// by Load and passed explicitly to the components that need it.
type Settings struct {
	UserHome            string
	HomePath            string
	TargetPath          string
	Registry            string
	UseOriginalRegistry bool
	LogLevel            string
	Commands            map[string]Command
}

// Command is a user-configured command mapping.
type Command struct {
	Package string
	Version string
	Hooks   []string
}

// Dir returns the path to the config directory (~/.magic-cli/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.magic-cli/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Init points Viper at the config file and environment. It does not fail when
// the config file is missing.
func Init() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyLogLevel, "info")

	_ = viper.ReadInConfig()
}

// Load bootstraps the environment and returns the resolved settings.
//
// It checks that the user home exists, loads ~/.env into the process
// environment without overriding variables that are already set, then reads
// the config file and environment through Viper.
func Load() (*Settings, error) {
	userHome, err := UserHome()
	if err != nil {
		return nil, err
	}

	if err := LoadDotenv(filepath.Join(userHome, ".env")); err != nil {
		return nil, err
	}

	Init()

	s := &Settings{
		UserHome:            userHome,
		HomePath:            homePath(userHome),
		TargetPath:          viper.GetString(KeyTargetPath),
		Registry:            viper.GetString(KeyRegistry),
		UseOriginalRegistry: viper.GetBool(KeyUseOriginalRegistry),
		LogLevel:            viper.GetString(KeyLogLevel),
	}
	if viper.GetBool(KeyDebug) {
		s.LogLevel = "debug"
	}

	commands, err := decodeCommands(viper.Get(KeyCommands))
	if err != nil {
		return nil, err
	}
	s.Commands = commands

	return s, nil
}

// UserHome returns the current user's home directory and verifies it exists.
func UserHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoUserHome
	}
	if _, err := os.Stat(home); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoUserHome, home)
	}
	return home, nil
}

// LoadDotenv loads a dotenv file into the process environment if it exists.
// Variables already present in the environment win.
func LoadDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// homePath resolves the CLI home. An explicit home_path wins; otherwise the
// home key (or the branding default) is joined onto the user home.
func homePath(userHome string) string {
	if p := viper.GetString(KeyHomePath); p != "" {
		return p
	}
	name := viper.GetString(KeyHome)
	if name == "" {
		name = branding.HomeDir()
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(userHome, name)
}

// decodeCommands accepts either a package name or a {package, version, hooks}
// table per command.
func decodeCommands(raw interface{}) (map[string]Command, error) {
	out := map[string]Command{}
	if raw == nil {
		return out, nil
	}
	table, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("config key %q must be a mapping, got %T", KeyCommands, raw)
	}
	for name, v := range table {
		switch val := v.(type) {
		case string:
			out[name] = Command{Package: val}
		case map[string]interface{}:
			cmd := Command{}
			cmd.Package, _ = val["package"].(string)
			cmd.Version, _ = val["version"].(string)
			if hooks, ok := val["hooks"].([]interface{}); ok {
				for _, h := range hooks {
					if s, ok := h.(string); ok {
						cmd.Hooks = append(cmd.Hooks, s)
					}
				}
			}
			if cmd.Package == "" {
				return nil, fmt.Errorf("command %q: package is required", name)
			}
			out[name] = cmd
		default:
			return nil, fmt.Errorf("command %q: unsupported value of type %T", name, v)
		}
	}
	return out, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(strings.ToLower(key), value)

	configFile := FilePath()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
