package adminhash

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("adminhash", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Password != "" || cfg.SecretBytes != 0 {
		t.Fatalf("expected empty defaults, got %+v", cfg)
	}
}

func TestParseConfigBadArgs(t *testing.T) {
	fs := flag.NewFlagSet("adminhash", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	if _, err := ParseConfig(fs, []string{"-invalid"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestRunHashesFlagPassword(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(Config{Password: "open sesame"}, nil, buf, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	const prefix = "THEATER_PLANNER_ADMIN_PASSWORD_HASH="
	got := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("expected env prefix, got %q", got)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(strings.TrimPrefix(got, prefix)), []byte("open sesame")); err != nil {
		t.Fatalf("hash does not match passphrase: %v", err)
	}
}

func TestRunReadsStdinAndPrintsSecret(t *testing.T) {
	buf := &bytes.Buffer{}
	random := bytes.NewReader(bytes.Repeat([]byte{0xab}, 16))
	if err := Run(Config{SecretBytes: 16}, strings.NewReader("from stdin\n"), buf, random); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	hash := strings.TrimPrefix(lines[0], "THEATER_PLANNER_ADMIN_PASSWORD_HASH=")
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("from stdin")); err != nil {
		t.Fatalf("hash does not match stdin passphrase: %v", err)
	}
	if want := "THEATER_PLANNER_ADMIN_TOKEN_SECRET=" + strings.Repeat("ab", 16); lines[1] != want {
		t.Fatalf("secret line = %q, want %q", lines[1], want)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if err := Run(Config{}, strings.NewReader("\n"), &bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected empty passphrase error")
	}
	if err := Run(Config{Password: "x"}, nil, nil, nil); err == nil {
		t.Fatal("expected nil output error")
	}
	if err := Run(Config{Password: "x", SecretBytes: 4}, nil, &bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected short secret error")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, fmt.Errorf("read error") }

func TestRunRandomError(t *testing.T) {
	if err := Run(Config{Password: "x", SecretBytes: 16}, nil, &bytes.Buffer{}, errReader{}); err == nil {
		t.Fatal("expected error from failing reader")
	}
}
