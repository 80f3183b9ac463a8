package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

// runCommand resets flag state and executes the root command with args.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	ResetGlobalState()
	root := GetRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func TestStoreLifecycleThroughCommands(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	storeDir := filepath.Join(t.TempDir(), "store")
	certDir := t.TempDir()

	if err := runCommand(t, "init", "--path", storeDir, "--no-commit", "--json"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "config.toml")); err != nil {
		t.Fatalf("init did not write config.toml: %v", err)
	}

	if err := runCommand(t, "cert", "generate", "alice", "--path", storeDir, "--no-commit", "--output", certDir); err != nil {
		t.Fatalf("cert generate failed: %v", err)
	}
	certPath := filepath.Join(certDir, "alice.cert")
	if _, err := os.Stat(certPath); err != nil {
		t.Fatalf("cert generate did not write the artifact: %v", err)
	}

	if err := runCommand(t, "create", "doc-1", `{"name":"Alice"}`,
		"--path", storeDir, "--no-commit", "--cert", certPath); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "documents", "doc-1.json")); err != nil {
		t.Fatalf("create did not write the artifact: %v", err)
	}

	if err := runCommand(t, "read", "doc-1",
		"--path", storeDir, "--no-commit", "--cert", certPath, "--json"); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if err := runCommand(t, "delete", "doc-1",
		"--path", storeDir, "--no-commit", "--cert", certPath); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "documents", "doc-1.json")); !os.IsNotExist(err) {
		t.Fatal("delete left the artifact behind")
	}
}

func TestCreateWithoutCertificateFails(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	storeDir := filepath.Join(t.TempDir(), "store")
	if err := runCommand(t, "init", "--path", storeDir, "--no-commit", "--json"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := runCommand(t, "cert", "generate", "alice",
		"--path", storeDir, "--no-commit", "--output", t.TempDir()); err != nil {
		t.Fatalf("cert generate failed: %v", err)
	}

	if err := runCommand(t, "create", "doc-1", `{}`,
		"--path", storeDir, "--no-commit"); err == nil {
		t.Fatal("create without a certificate should fail once the store is bootstrapped")
	}
}
