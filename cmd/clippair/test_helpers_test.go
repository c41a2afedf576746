package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clippair/internal/catalogue"
	"clippair/internal/config"
	"clippair/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, entries ...catalogue.Entry) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CLIPPAIR_POLICY", "")
	t.Setenv("CLIPPAIR_PATH_PREFIX", "")

	cfg := testsupport.NewConfig(t)
	testsupport.WriteCatalogue(t, cfg.Paths.Catalogue, entries...)

	configPath := filepath.Join(homeDir, ".config", "clippair", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ncatalogue = %q\noutput = %q\nstate_dir = %q\n\n[pairing]\npolicy = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.Catalogue,
		cfg.Paths.Output,
		cfg.Paths.StateDir,
		cfg.Pairing.Policy,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func twoAgentCatalogue() []catalogue.Entry {
	return []catalogue.Entry{
		testsupport.Clip("cross", "v1", "a", 1, 1),
		testsupport.Clip("cross", "v1", "b", 1, 1),
	}
}
