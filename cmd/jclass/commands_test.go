package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daimatz/jclass/pkg/classfile/classtest"
	"github.com/daimatz/jclass/pkg/config"
)

func TestOptionsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jclass.yaml")
	if err := os.WriteFile(path, []byte("format: yaml\nworkers: 3\nmax_array_depth: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, o := newFlagSet("dump")
	fs.StringVar(&o.format, "format", config.FormatText, "")
	fs.StringVar(&o.color, "color", config.ColorAuto, "")
	if err := fs.Parse([]string{"-config", path, "-workers", "5", "Foo.class"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := o.config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 5 {
		t.Errorf("workers: got %d, want flag value 5", cfg.Workers)
	}
	if cfg.Format != config.FormatYAML || cfg.MaxArrayDepth != 10 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Color != config.ColorAuto {
		t.Errorf("color: got %q, want default", cfg.Color)
	}
}

func TestOptionsConfigInvalidFlag(t *testing.T) {
	fs, o := newFlagSet("check")
	if err := fs.Parse([]string{"-max-array-depth", "0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := o.config(); err == nil {
		t.Error("expected error for max-array-depth 0")
	}
}

func TestOpenSources(t *testing.T) {
	if _, err := openSources(nil); err == nil {
		t.Error("expected error for no paths")
	}

	path := filepath.Join(t.TempDir(), "Foo.class")
	if err := os.WriteFile(path, classtest.Minimal(), 0o644); err != nil {
		t.Fatal(err)
	}
	sources, err := openSources([]string{path, filepath.Dir(path)})
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}

	if _, err := openSources([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestTextStylesNever(t *testing.T) {
	if s := textStyles(config.ColorNever); s != nil {
		t.Errorf("got %+v, want nil", s)
	}
	if s := textStyles(config.ColorAlways); s == nil {
		t.Error("always: got nil styles")
	}
}

func TestFindJmodPath(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		t.Setenv("JAVA_BASE_JMOD", "/opt/jdk/java.base.jmod")
		if got := findJmodPath(); got != "/opt/jdk/java.base.jmod" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("java home", func(t *testing.T) {
		home := t.TempDir()
		jmod := filepath.Join(home, "jmods", "java.base.jmod")
		if err := os.MkdirAll(filepath.Dir(jmod), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(jmod, []byte("JM\x01\x00"), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("JAVA_BASE_JMOD", "")
		t.Setenv("JAVA_HOME", home)
		if got := findJmodPath(); got != jmod {
			t.Errorf("got %q, want %q", got, jmod)
		}
	})
}
