// Package settings loads the host application's configuration for both
// logging subsystems: the console sink in the root package and the
// application logger in [github.com/trviph/consolekeeper/applog]. Defaults
// ship embedded in the binary; a YAML or JSON file supplied by the user is
// layered over them, so a partial file only overrides what it names.
package settings

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/trviph/consolekeeper"
	"github.com/trviph/consolekeeper/applog"
)

//go:embed settings.default.yaml
var defaultSettings []byte

// Console configures the web-view console sink.
type Console struct {
	// Folder holding the active console log and its backups. Empty means
	// the platform default, see [DefaultLogDir].
	Directory string `koanf:"directory"`
	// Name of the active console log file.
	FileName string `koanf:"file_name"`
	// Size in bytes past which the sink rotates.
	MaxSizeBytes int `koanf:"max_size_bytes"`
	// Number of rotated backups kept on disk.
	MaxBackups int `koanf:"max_backups"`
	// Number of recent records retained in memory for the UI.
	RecentLines int `koanf:"recent_lines"`
}

// App configures the application's own logger.
type App struct {
	// Minimum level: debug, info, warn, or error.
	Level string `koanf:"level"`
	// Path of the application log file. Empty disables file logging.
	File string `koanf:"file"`
	// Emit JSON records instead of logfmt text.
	JSON bool `koanf:"json"`
}

// Settings is the full configuration surface of the logging subsystems.
type Settings struct {
	Console Console `koanf:"console"`
	App     App     `koanf:"app"`
}

// Default returns the embedded default settings.
func Default() (*Settings, error) {
	return unmarshal(nil, nil)
}

// Load reads the settings file at path and layers it over the embedded
// defaults. The format is detected from the extension: .yaml and .yml are
// YAML, .json is JSON, anything else is an error.
func Load(path string) (*Settings, error) {
	parser, err := parserFor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file, caused by %w", err)
	}
	return unmarshal(data, parser)
}

// LoadBytes layers pre-read settings over the embedded defaults. Format is
// "yaml" or "json".
func LoadBytes(data []byte, format string) (*Settings, error) {
	parser, err := parserFor("." + strings.TrimPrefix(format, "."))
	if err != nil {
		return nil, err
	}
	return unmarshal(data, parser)
}

func parserFor(ext string) (koanf.Parser, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported settings format %q", ext)
	}
}

// Load the embedded defaults first, then the user's data over them, so
// that keys absent from the file keep their default values.
func unmarshal(data []byte, parser koanf.Parser) (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultSettings), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default settings, caused by %w", err)
	}
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("failed to load settings, caused by %w", err)
		}
	}

	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings, caused by %w", err)
	}
	return &s, nil
}

// KeeperOpts translates the console section into options for
// [consolekeeper.New], so the host wires the sink from one file. An empty
// directory resolves through [DefaultLogDir] for the running executable.
func (s *Settings) KeeperOpts() []consolekeeper.Opt {
	return []consolekeeper.Opt{
		consolekeeper.WithFolder(s.consoleDir()),
		consolekeeper.WithFileName(s.Console.FileName),
		consolekeeper.WithMaxSize(s.Console.MaxSizeBytes),
		consolekeeper.WithMaxBackups(s.Console.MaxBackups),
		consolekeeper.WithRecentLines(s.Console.RecentLines),
	}
}

// The console log folder: the configured directory, or the platform
// default for this executable when none is configured. If even the
// platform default cannot be resolved the sink falls back to its own
// temp-folder default.
func (s *Settings) consoleDir() string {
	if s.Console.Directory != "" {
		return s.Console.Directory
	}
	dir, err := DefaultLogDir(appName())
	if err != nil {
		return ""
	}
	return dir
}

func appName() string {
	if len(os.Args) > 0 && len(os.Args[0]) > 0 {
		return filepath.Base(os.Args[0])
	}
	return "consolekeeper"
}

// AppLogConfig translates the app section into a configuration for
// [applog.Initialize].
func (s *Settings) AppLogConfig() applog.Config {
	return applog.Config{
		Level:    s.App.Level,
		FilePath: s.App.File,
		JSON:     s.App.JSON,
	}
}
