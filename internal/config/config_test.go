package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error for missing config: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("expected zero config: got:%+v", cfg)
	}

	path := filepath.Join(dir, "config.json")
	err = os.WriteFile(path, []byte(`{"transport":"rfcomm","address":"AA:BB:CC:DD:EE:FF","channel":3,"serial_port":"/dev/ttyACM0","baud":115200}`), 0o600)
	if err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	want := Config{
		Transport:  "rfcomm",
		Address:    "AA:BB:CC:DD:EE:FF",
		Channel:    3,
		SerialPort: "/dev/ttyACM0",
		Baud:       115200,
	}
	if cfg != want {
		t.Errorf("unexpected config:\ngot: %+v\nwant:%+v", cfg, want)
	}

	err = os.WriteFile(path, []byte(`{"transport":`), 0o600)
	if err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}
	_, err = Load(path)
	if err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := Path(), filepath.Join("/tmp/xdg", "shoecleaner", "config.json"); got != want {
		t.Errorf("unexpected path: got:%q want:%q", got, want)
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/user")
	if got, want := Path(), filepath.Join("/home/user", ".config", "shoecleaner", "config.json"); got != want {
		t.Errorf("unexpected path: got:%q want:%q", got, want)
	}
}

func TestOr(t *testing.T) {
	if got := Or("", "uart"); got != "uart" {
		t.Errorf("unexpected default: got:%q", got)
	}
	if got := Or("rfcomm", "uart"); got != "rfcomm" {
		t.Errorf("unexpected value: got:%q", got)
	}
	if got := Or(uint8(0), 1); got != 1 {
		t.Errorf("unexpected default: got:%d", got)
	}
}
