package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calculator/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	var out, errOut bytes.Buffer
	cmd := newRootCommand(config.Default())
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		out  string
	}{
		{"one", []string{"2 + 3 * 4"}, "14\n"},
		{"many", []string{"2 + 3 * 4", "(2 + 3) * 4", "200 × 10%"}, "14\n20\n20\n"},
		{"display", []string{"1234.5 * 2", "0.1 + 0.2"}, "2,469\n0.3\n"},
		{"echo", []string{"--echo", "2+3*4"}, "([2] + [(3) * (4)]) : 14\n"},
		{"format", []string{"--format", "%.2f", "1/3"}, "0.33\n"},
		{"degrees", []string{"--degrees", "cos(180)"}, "-1\n"},
		{"precision", []string{"-p", "64", "--format", "%v", "0.1 + 0.2"}, "0.3\n"},
		{"float64", []string{"--format", "%v", "0.1 + 0.2"}, "0.30000000000000004\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, errOut, err := execute(t, "", c.args...)
			require.NoError(t, err)
			assert.Equal(t, c.out, out)
			assert.Empty(t, errOut)
		})
	}
}

func TestRootFailures(t *testing.T) {
	out, errOut, err := execute(t, "", "1 / 0", "2 +", "2 * 3")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "6\n", out)
	assert.Contains(t, errOut, "arg 1: 3: division by zero")
	assert.Contains(t, errOut, "arg 2: 4: missing operand at end of input")
}

func TestRootStdin(t *testing.T) {
	out, errOut, err := execute(t, "2 +\n  3\n")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
	assert.Empty(t, errOut)

	out, errOut, err = execute(t, "", "--in", "-")
	assert.ErrorIs(t, err, errFailed)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "stdin: empty expression")
}

func TestRootLines(t *testing.T) {
	out, errOut, err := execute(t, "2+3\n\n1/0\ncos(0)\n", "-n")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "5\n1\n", out)
	assert.Contains(t, errOut, "stdin line 3: 2: division by zero")
}

func TestRootFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("hypot(3, 4)\nsqrt(16)\n"), 0o644))

	out, _, err := execute(t, "", "--in", path, "--lines", "10%")
	require.NoError(t, err)
	assert.Equal(t, "5\n4\n0.1\n", out)

	_, _, err = execute(t, "", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	if assert.Error(t, err) {
		assert.NotErrorIs(t, err, errFailed)
		assert.Contains(t, err.Error(), "unable to open input")
	}
}

func TestRootBadConfig(t *testing.T) {
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{"format", []string{"--format", "pretty", "1"}, `"pretty"`},
		{"verb", []string{"--format", "%d", "1"}, `"%d"`},
		{"precision", []string{"-p", "99999999999", "1"}, "precision"},
		{"trig", []string{"trig", "--format", "%s", "cos", "0"}, `"%s"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, _, err := execute(t, "", c.args...)
			var cfgerr *configError
			if assert.ErrorAs(t, err, &cfgerr) {
				assert.Contains(t, err.Error(), c.msg)
			}
			assert.Equal(t, 2, exitCode(err))
			assert.Empty(t, out)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	_, _, err := execute(t, "", "1 / 0")
	assert.Equal(t, 1, exitCode(err))
	_, _, err = execute(t, "", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 1, exitCode(err))
	_, _, err = execute(t, "", "--no-such-flag")
	assert.Equal(t, 1, exitCode(err))
	assert.Equal(t, 2, exitCode(errors.Wrap(&configError{errFailed}, "wrapped")))
}

func TestTrig(t *testing.T) {
	cases := []struct {
		args []string
		out  string
	}{
		{[]string{"trig", "cos", "0"}, "1\n"},
		{[]string{"trig", "sin", "0"}, "0\n"},
		{[]string{"trig", "tan", "0"}, "0\n"},
		{[]string{"trig", "--format", "%.4f", "sin", "1"}, "0.8415\n"},
		// Arguments are always radians.
		{[]string{"--degrees", "trig", "cos", "0"}, "1\n"},
	}
	for _, c := range cases {
		out, _, err := execute(t, "", c.args...)
		if assert.NoErrorf(t, err, "args %q", c.args) {
			assert.Equalf(t, c.out, out, "args %q", c.args)
		}
	}

	_, _, err := execute(t, "", "trig", "sec", "1")
	assert.Error(t, err)
	_, _, err = execute(t, "", "trig", "cos", "pi")
	assert.Error(t, err)
	_, _, err = execute(t, "", "trig", "cos")
	assert.Error(t, err)
}
