package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photo-culler/internal/database"
	"photo-culler/internal/thumbnails"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
	if info.OS == "" || info.Arch == "" {
		t.Errorf("Expected OS and Arch to be set, got %q/%q", info.OS, info.Arch)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_SET_VAR", "custom")
	t.Setenv("TEST_EMPTY_VAR", "")

	if got := getEnv("TEST_SET_VAR", "default"); got != "custom" {
		t.Errorf("getEnv(set) = %q, want custom", got)
	}
	if got := getEnv("TEST_EMPTY_VAR", "default"); got != "default" {
		t.Errorf("getEnv(empty) = %q, want default", got)
	}
	if got := getEnv("TEST_UNSET_VAR_PHOTO_CULLER", "default"); got != "default" {
		t.Errorf("getEnv(unset) = %q, want default", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{name: "empty uses default", envValue: "", defaultValue: true, want: true},
		{name: "true", envValue: "true", defaultValue: false, want: true},
		{name: "FALSE", envValue: "FALSE", defaultValue: true, want: false},
		{name: "1", envValue: "1", defaultValue: false, want: true},
		{name: "0", envValue: "0", defaultValue: true, want: false},
		{name: "invalid uses default", envValue: "not-a-bool", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			if got := getEnvBool("TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		envValue string
		want     int
	}{
		{"", 16},
		{"32", 32},
		{" 8 ", 8},
		{"many", 16},
	}

	for _, tt := range tests {
		t.Setenv("TEST_INT", tt.envValue)
		if got := getEnvInt("TEST_INT", 16); got != tt.want {
			t.Errorf("getEnvInt(%q) = %d, want %d", tt.envValue, got, tt.want)
		}
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		envValue string
		want     time.Duration
	}{
		{"", time.Second},
		{"250ms", 250 * time.Millisecond},
		{"2m", 2 * time.Minute},
		{"-1s", time.Second},
		{"soon", time.Second},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.envValue)
		if got := getEnvDuration("TEST_DURATION", time.Second); got != tt.want {
			t.Errorf("getEnvDuration(%q) = %v, want %v", tt.envValue, got, tt.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	photos := t.TempDir()
	data := filepath.Join(t.TempDir(), "nested", "data")

	t.Setenv("PHOTO_DIR", photos)
	t.Setenv("DATA_DIR", data)
	t.Setenv("PORT", "9999")
	t.Setenv("THUMBNAIL_CHUNK_SIZE", "0")
	t.Setenv("THUMBNAIL_TICK_PAUSE", "5ms")
	t.Setenv("RAW_DECODER", "/opt/dcraw")
	t.Setenv("VIPS_ENABLED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.PhotoDir != photos {
		t.Errorf("PhotoDir = %s, want %s", config.PhotoDir, photos)
	}
	if config.Port != "9999" {
		t.Errorf("Port = %s, want 9999", config.Port)
	}
	if config.ChunkSize != thumbnails.DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want default %d", config.ChunkSize, thumbnails.DefaultChunkSize)
	}
	if config.TickPause != 5*time.Millisecond {
		t.Errorf("TickPause = %v, want 5ms", config.TickPause)
	}
	if config.RawDecoder != "/opt/dcraw" || config.VipsEnabled {
		t.Errorf("decoder settings = (%q, %v)", config.RawDecoder, config.VipsEnabled)
	}
	if config.DatabasePath != filepath.Join(data, database.DefaultFilename) {
		t.Errorf("DatabasePath = %s", config.DatabasePath)
	}
	if info, err := os.Stat(data); err != nil || !info.IsDir() {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestLoadConfig_MissingPhotoDir(t *testing.T) {
	t.Setenv("PHOTO_DIR", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("DATA_DIR", t.TempDir())

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with a missing photo directory succeeded")
	}
}

func TestLoadConfig_PhotoDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHOTO_DIR", file)
	t.Setenv("DATA_DIR", t.TempDir())

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with a file as photo directory succeeded")
	}
}

func TestGetRoutes(t *testing.T) {
	noop := func(http.ResponseWriter, *http.Request) {}
	r := mux.NewRouter()
	r.HandleFunc("/health", noop).Methods("GET")
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records/{index:[0-9]+}/like", noop).Methods("POST")

	routes, err := GetRoutes(r)
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}

	found := map[string]bool{}
	for _, route := range routes {
		found[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{"GET /health", "POST /api/records/{index:[0-9]+}/like"} {
		if !found[want] {
			t.Errorf("route %q not found in %v", want, routes)
		}
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "health"},
		{"/api/catalog", "api/catalog"},
		{"/api/records/{index}/like", "api/records"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
