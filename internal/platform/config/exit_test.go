package config

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestExitfWritesMessageAndExitsWithCode1(t *testing.T) {
	var stderr bytes.Buffer
	code := -1
	exitStderr = &stderr
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() {
		exitStderr = io.Writer(os.Stderr)
		exitFunc = os.Exit
	})

	Exitf("fatal: %s", "something broke")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got := stderr.String(); got != "fatal: something broke\n" {
		t.Fatalf("stderr = %q, want %q", got, "fatal: something broke\n")
	}
}
