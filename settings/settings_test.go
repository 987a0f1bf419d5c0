package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trviph/consolekeeper"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	if s.Console.FileName != "console.log" {
		t.Errorf("Console.FileName = %q, want %q", s.Console.FileName, "console.log")
	}
	if s.Console.MaxSizeBytes != 10*consolekeeper.Mb {
		t.Errorf("Console.MaxSizeBytes = %d, want %d", s.Console.MaxSizeBytes, 10*consolekeeper.Mb)
	}
	if s.Console.MaxBackups != 3 {
		t.Errorf("Console.MaxBackups = %d, want 3", s.Console.MaxBackups)
	}
	if s.Console.RecentLines != 100 {
		t.Errorf("Console.RecentLines = %d, want 100", s.Console.RecentLines)
	}
	if s.App.Level != "info" {
		t.Errorf("App.Level = %q, want %q", s.App.Level, "info")
	}
	if s.App.JSON {
		t.Error("App.JSON = true, want false")
	}
}

// A partial file only overrides the keys it names; everything else keeps
// its embedded default.
func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := strings.Join([]string{
		"console:",
		"  max_size_bytes: 2048",
		"app:",
		"  level: debug",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to prepare settings file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if s.Console.MaxSizeBytes != 2048 {
		t.Errorf("Console.MaxSizeBytes = %d, want 2048", s.Console.MaxSizeBytes)
	}
	if s.App.Level != "debug" {
		t.Errorf("App.Level = %q, want %q", s.App.Level, "debug")
	}
	// Untouched keys keep their defaults.
	if s.Console.FileName != "console.log" {
		t.Errorf("Console.FileName = %q, want the default %q", s.Console.FileName, "console.log")
	}
	if s.Console.MaxBackups != 3 {
		t.Errorf("Console.MaxBackups = %d, want the default 3", s.Console.MaxBackups)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"console": {"file_name": "webview.log"}, "app": {"json": true}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to prepare settings file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.Console.FileName != "webview.log" {
		t.Errorf("Console.FileName = %q, want %q", s.Console.FileName, "webview.log")
	}
	if !s.App.JSON {
		t.Error("App.JSON = false, want true")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		// Named input parameters for target function.
		path string
	}{
		{
			name: "unsupported extension",
			path: filepath.Join(t.TempDir(), "settings.toml"),
		},
		{
			name: "missing file",
			path: filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("Load() succeeded unexpectedly")
			}
		})
	}
}

func TestLoadBytes(t *testing.T) {
	s, err := LoadBytes([]byte(`{"console": {"max_backups": 7}}`), "json")
	if err != nil {
		t.Fatalf("LoadBytes() failed: %v", err)
	}
	if s.Console.MaxBackups != 7 {
		t.Errorf("Console.MaxBackups = %d, want 7", s.Console.MaxBackups)
	}

	if _, err := LoadBytes([]byte("console: {}"), "toml"); err == nil {
		t.Error("LoadBytes() with an unsupported format succeeded unexpectedly")
	}
}

// The bridge must produce options that New accepts, wiring the sink from
// the settings file alone.
func TestKeeperOpts(t *testing.T) {
	folder := t.TempDir()
	s, err := LoadBytes([]byte(strings.Join([]string{
		"console:",
		"  directory: " + folder,
		"  file_name: bridged.log",
		"  max_size_bytes: 64",
		"  max_backups: 1",
	}, "\n")), "yaml")
	if err != nil {
		t.Fatalf("LoadBytes() failed: %v", err)
	}

	keeper, err := consolekeeper.New(s.KeeperOpts()...)
	if err != nil {
		t.Fatalf("New() with bridged options failed: %v", err)
	}
	defer keeper.Close()

	keeper.Log("info", "through the bridge")
	content, err := os.ReadFile(filepath.Join(folder, "bridged.log"))
	if err != nil {
		t.Fatalf("failed to read active file: %v", err)
	}
	if !strings.Contains(string(content), "through the bridge") {
		t.Errorf("active file = %q, want the bridged record", content)
	}
}

// An empty console directory resolves to the platform log folder of the
// running executable; a configured one is taken verbatim.
func TestConsoleDir(t *testing.T) {
	platform, err := DefaultLogDir(appName())
	if err != nil {
		t.Fatalf("DefaultLogDir() failed: %v", err)
	}

	tests := []struct {
		name string // description of this test case
		// Named input parameters for receiver fields.
		directory string
		want      string
	}{
		{
			name: "empty resolves to the platform default",
			want: platform,
		},
		{
			name:      "configured directory wins",
			directory: "/var/log/example",
			want:      "/var/log/example",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Default()
			if err != nil {
				t.Fatalf("Default() failed: %v", err)
			}
			s.Console.Directory = tt.directory

			got := s.consoleDir()
			if got != tt.want {
				t.Errorf("consoleDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppLogConfig(t *testing.T) {
	s, err := LoadBytes([]byte(`{"app": {"level": "warn", "file": "/tmp/app.log", "json": true}}`), "json")
	if err != nil {
		t.Fatalf("LoadBytes() failed: %v", err)
	}

	cfg := s.AppLogConfig()
	if cfg.Level != "warn" {
		t.Errorf("Level = %q, want %q", cfg.Level, "warn")
	}
	if cfg.FilePath != "/tmp/app.log" {
		t.Errorf("FilePath = %q, want %q", cfg.FilePath, "/tmp/app.log")
	}
	if !cfg.JSON {
		t.Error("JSON = false, want true")
	}
}

func TestDefaultLogDir(t *testing.T) {
	dir, err := DefaultLogDir("ConsoleKeeper")
	if err != nil {
		t.Fatalf("DefaultLogDir() failed: %v", err)
	}
	if !strings.Contains(dir, "ConsoleKeeper") {
		t.Errorf("DefaultLogDir() = %q, want it to contain the app name", dir)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("DefaultLogDir() = %q, want an absolute path", dir)
	}
}
