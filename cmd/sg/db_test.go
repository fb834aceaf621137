package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func confirmWith(t *testing.T, input string) bool {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(input))
	return confirmReset(cmd, "stargate")
}

func TestConfirmReset(t *testing.T) {
	cases := map[string]bool{
		"y\n":    true,
		"Y\n":    true,
		"yes\n":  true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"nope\n": false,
	}
	for input, want := range cases {
		if got := confirmWith(t, input); got != want {
			t.Errorf("confirmReset(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestDBInit_MissingConfig(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"db", "init", "--config", "/nonexistent/stargate.yaml"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestReadPassword_FromPipe(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader("hunter2\n"))

	pw, err := readPassword(cmd, "root")
	if err != nil {
		t.Fatalf("readPassword: %v", err)
	}
	if pw != "hunter2" {
		t.Errorf("pw = %q, want hunter2", pw)
	}
}
