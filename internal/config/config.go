package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/atomicstack/gossip-tui/internal/app"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string // config file that was read, empty when none
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// fileConfig is the optional TOML configuration file.
type fileConfig struct {
	DataDir      string `toml:"data_dir"`
	PollInterval string `toml:"poll_interval"`
	LogFile      string `toml:"log_file"`
	Trace        *bool  `toml:"trace"`
}

const (
	appName        = "gossip-tui"
	configFileName = "config.toml"
	logFileName    = "gossip-tui.log"

	defaultPollInterval = 100 * time.Millisecond

	envConfig  = "GOSSIP_TUI_CONFIG"
	envDataDir = "GOSSIP_TUI_DATA_DIR"
	envPoll    = "GOSSIP_TUI_POLL"
	envLogFile = "GOSSIP_TUI_LOG_FILE"
	envTrace   = "GOSSIP_TUI_TRACE"
	envImport  = "GOSSIP_TUI_IMPORT"
	envWidth   = "GOSSIP_TUI_WIDTH"
	envHeight  = "GOSSIP_TUI_HEIGHT"
)

// LoadArgs parses args against environ and the config file. Precedence is
// flag, then environment, then config file, then built-in default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath, explicit := configPathFromArgs(args)
	if !explicit {
		if v, ok := env[envConfig]; ok && strings.TrimSpace(v) != "" {
			configPath, explicit = v, true
		} else {
			configPath = filepath.Join(configHome(env), appName, configFileName)
		}
	}
	file, found, err := readFile(configPath, explicit)
	if err != nil {
		return Config{}, err
	}
	filePoll := defaultPollInterval
	if file.PollInterval != "" {
		filePoll, err = time.ParseDuration(file.PollInterval)
		if err != nil {
			return Config{}, fmt.Errorf("%s: poll_interval: %w", configPath, err)
		}
	}
	fileTrace := false
	if file.Trace != nil {
		fileTrace = *file.Trace
	}
	fileDataDir := file.DataDir
	if fileDataDir == "" {
		fileDataDir = filepath.Join(dataHome(env), appName)
	}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configPath, "path to the TOML configuration file")
	dataDir := fs.String("data-dir", envOrDefault(env, envDataDir, fileDataDir), "directory holding the item store and identity keyfile")
	poll := fs.Duration("poll", envOrDuration(env, envPoll, filePoll), "sleep between worker ticks")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file (default <data-dir>/"+logFileName+")")
	trace := fs.Bool("trace", envOrBool(env, envTrace, fileTrace), "enable verbose JSON trace logging")
	importPath := fs.String("import", envOrDefault(env, envImport, ""), "JSON-lines file of items to import at startup")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *logFile == "" {
		*logFile = filepath.Join(*dataDir, logFileName)
	}

	cfg := Config{
		App: app.Config{
			DataDir:      *dataDir,
			PollInterval: *poll,
			ImportPath:   *importPath,
			Width:        *width,
			Height:       *height,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"config":  configPath,
			"dataDir": *dataDir,
			"poll":    poll.String(),
			"logFile": *logFile,
			"trace":   strconv.FormatBool(*trace),
			"import":  *importPath,
			"width":   strconv.Itoa(*width),
			"height":  strconv.Itoa(*height),
		},
		Args: append([]string(nil), args...),
	}
	if found {
		cfg.File = configPath
	}
	return cfg, nil
}

// configPathFromArgs finds -config ahead of the real parse, since the file
// supplies defaults for the other flags.
func configPathFromArgs(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func readFile(path string, required bool) (fileConfig, bool, error) {
	var file fileConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return file, false, nil
	}
	if err != nil {
		return file, false, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return file, false, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, true, nil
}

func configHome(env map[string]string) string {
	if v := env["XDG_CONFIG_HOME"]; v != "" {
		return v
	}
	return xdg.ConfigHome
}

func dataHome(env map[string]string) string {
	if v := env["XDG_DATA_HOME"]; v != "" {
		return v
	}
	return xdg.DataHome
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate rejects values the application cannot run with.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive (got %s)", cfg.App.PollInterval)
	}
	if strings.TrimSpace(cfg.App.DataDir) == "" {
		return errors.New("data dir must not be empty")
	}
	return nil
}
