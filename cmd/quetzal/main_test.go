// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[rules]
blacklist = ["ehm"]
atoms = ["a", "á", "b", "č", "g", "l", "m", "n", "o", "r"]
after_angle = ["SM", "SJ"]

[log]
level = "error"
`), 0o600))

	return path
}

func TestRun(t *testing.T) {
	cfg := writeRules(t)

	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantCode   int
		wantOutput []string
	}{
		{
			name:     "valid args",
			args:     []string{"-config", cfg, "čarala máro", "<SM_SJ bama>"},
			wantCode: exitValid,
		},
		{
			name:       "mistakes from stdin",
			args:       []string{"-config", cfg},
			stdin:      "čarala b%nga máro\n\n(12)\n",
			wantCode:   exitMistakes,
			wantOutput: []string{"segment 1: 1 mistake(s)", "bad_substr", "^"},
		},
		{
			name:     "missing config",
			args:     []string{"-config", filepath.Join(t.TempDir(), "missing.toml"), "a"},
			wantCode: exitError,
		},
		{
			name:     "bad flag",
			args:     []string{"-nope"},
			wantCode: exitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			require.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())

			for _, want := range tt.wantOutput {
				require.Contains(t, stdout.String(), want)
			}
		})
	}
}

func TestRun_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeRules(t), "-json", "><<", "bama"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, exitMistakes, code, "stderr: %s", stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)

	var first struct {
		Index    int
		Valid    bool
		Mistakes []struct {
			Kind string
			At   int
		}
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.False(t, first.Valid)
	require.Len(t, first.Mistakes, 5)
	require.Equal(t, "closing_unopened_delim", first.Mistakes[0].Kind)
	require.Equal(t, "unclosed_delim", first.Mistakes[4].Kind)
	require.Equal(t, 1, first.Mistakes[4].At)

	var second struct {
		Valid     bool
		Canonical string
		Tokens    []string
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.True(t, second.Valid)
	require.Equal(t, "bama", second.Canonical)
	require.Equal(t, []string{"bama"}, second.Tokens)
}

func TestRun_JSON_Canonical(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeRules(t), "-json", "  <SJ_SM   bama >  ( 12 )"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, exitValid, code, "stderr: %s", stderr.String())

	var got struct {
		Canonical string
		Tokens    []string
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Equal(t, "<SJ_SM bama> (12)", got.Canonical)
	require.Equal(t, []string{"bama", "12"}, got.Tokens)
}
