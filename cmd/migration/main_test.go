package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
)

type fakeMigrator struct {
	upErr    error
	steps    []int
	version  uint
	dirty    bool
	verErr   error
	forced   int
	migrated uint
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.verErr }

func (f *fakeMigrator) Force(version int) error {
	f.forced = version
	return nil
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.migrated = version
	return nil
}

func TestExecute(t *testing.T) {
	logger := logging.NewNop()

	t.Run("up without changes", func(t *testing.T) {
		m := &fakeMigrator{upErr: migrate.ErrNoChange}
		if err := execute(m, []string{"up"}, logger, &bytes.Buffer{}); err != nil {
			t.Fatalf("expected no change to be ignored, got %v", err)
		}
	})

	t.Run("down defaults to one step", func(t *testing.T) {
		m := &fakeMigrator{}
		if err := execute(m, []string{"down"}, logger, &bytes.Buffer{}); err != nil {
			t.Fatalf("down: %v", err)
		}
		if len(m.steps) != 1 || m.steps[0] != -1 {
			t.Fatalf("unexpected steps: %v", m.steps)
		}
	})

	t.Run("version none", func(t *testing.T) {
		var out bytes.Buffer
		m := &fakeMigrator{verErr: migrate.ErrNilVersion}
		if err := execute(m, []string{"version"}, logger, &out); err != nil {
			t.Fatalf("version: %v", err)
		}
		if out.String() != "version: none\ndirty: false\n" {
			t.Fatalf("unexpected output: %q", out.String())
		}
	})

	t.Run("force and goto", func(t *testing.T) {
		m := &fakeMigrator{}
		if err := execute(m, []string{"force", "1760054400"}, logger, &bytes.Buffer{}); err != nil {
			t.Fatalf("force: %v", err)
		}
		if err := execute(m, []string{"GOTO", "1760054400"}, logger, &bytes.Buffer{}); err != nil {
			t.Fatalf("goto: %v", err)
		}
		if m.forced != 1760054400 || m.migrated != 1760054400 {
			t.Fatalf("unexpected versions: forced=%d migrated=%d", m.forced, m.migrated)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		if err := execute(&fakeMigrator{}, []string{"sideways"}, logger, &bytes.Buffer{}); !errors.Is(err, errUsage) {
			t.Fatalf("expected usage error, got %v", err)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		if err := execute(&fakeMigrator{}, []string{"force"}, logger, &bytes.Buffer{}); err == nil {
			t.Fatalf("expected error for force without version")
		}
	})
}

func TestParseSteps(t *testing.T) {
	if _, err := parseSteps([]string{"0"}); err == nil {
		t.Fatalf("expected error for zero steps")
	}
	if _, err := parseSteps([]string{"x"}); err == nil {
		t.Fatalf("expected error for non-numeric steps")
	}
	if steps, err := parseSteps([]string{" 3 "}); err != nil || steps != 3 {
		t.Fatalf("unexpected steps=%d err=%v", steps, err)
	}
}

func TestRun_RequiresArgsAndDBURL(t *testing.T) {
	if err := run(nil, logging.NewNop(), &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}

	t.Setenv("DB_URL", "")
	if err := run([]string{"up"}, logging.NewNop(), &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error without DB_URL")
	}
}
