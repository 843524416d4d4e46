package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shengyanli1982/fieldkit"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

const fruitLayout = `
name = "Fruit"

[[fields]]
name = "apples"
kind = "byte"
default = 1

[[fields]]
name = "pie"
kind = "short"
hex = true
when = "apples > 2"
`

func execute(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	defer fieldkit.SetLogger(nil)

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeLayout(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fruit.toml")
	assert.NilError(t, os.WriteFile(path, []byte(fruitLayout), 0o644))
	return path
}

func TestDecodeLayout(t *testing.T) {
	layout := writeLayout(t)

	out, _, err := execute(t, []byte("03 12 34 ff"), "decode", "--layout", layout, "--hex")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "apples : ByteField = 3 (1)"))
	assert.Check(t, is.Contains(out, "pie    : ShortField = 0x1234 (0x0)"))
	assert.Check(t, is.Contains(out, "3B of 4B decoded as Fruit"))
	assert.Check(t, is.Contains(out, "payload: 1B"))
}

func TestDecodeFromFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "packet.bin")
	assert.NilError(t, os.WriteFile(input, []byte{0x45, 0x00, 0x00, 0x14}, 0o644))

	out, stderr, err := execute(t, nil, "decode", "--protocol", "ipv4", "--dump", "--log-format", "json", input)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "version"))
	assert.Check(t, is.Contains(out, "0000  45 00 00 14"))
	assert.Check(t, is.Contains(stderr, `"msg":"input is too short, some fields kept their default value"`))
	assert.Check(t, is.Contains(stderr, `"component":"fieldkit"`))
}

func TestDecodeErrors(t *testing.T) {
	layout := writeLayout(t)

	tests := []struct {
		name  string
		stdin []byte
		args  []string
		err   string
	}{
		{"No Layout", nil, []string{"decode"}, "one of --layout or --protocol is required"},
		{"Both", nil, []string{"decode", "-f", layout, "-p", "ipv4"}, "mutually exclusive"},
		{"Unknown Protocol", nil, []string{"decode", "-p", "tcp"}, `unknown protocol "tcp"`},
		{"Bad Hex", []byte("zz"), []string{"decode", "-f", layout, "-x"}, "invalid hexadecimal input"},
		{"Too Large", make([]byte, 2048), []string{"decode", "-f", layout, "--max-input", "1KiB"}, "input is larger than 1KiB"},
		{"Bad Size", nil, []string{"decode", "-f", layout, "--max-input", "lots"}, "invalid --max-input"},
		{"Bad Level", nil, []string{"decode", "-f", layout, "--log-level", "loud"}, "unable to parse logging level"},
		{"Bad Format", nil, []string{"decode", "-f", layout, "--log-format", "xml"}, `unknown log format "xml"`},
		{"Missing File", nil, []string{"decode", "-f", layout, filepath.Join(t.TempDir(), "nope")}, "cannot open input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.stdin, tt.args...)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestRandom(t *testing.T) {
	out, _, err := execute(t, nil, "random", "--protocol", "ntp", "-n", "3")
	assert.NilError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Assert(t, is.Len(lines, 3))
	for _, line := range lines {
		data, err := hex.DecodeString(line)
		assert.NilError(t, err)
		assert.Check(t, is.Len(data, 48))
	}

	raw, _, err := execute(t, nil, "random", "-f", writeLayout(t), "--raw")
	assert.NilError(t, err)
	assert.Check(t, len(raw) == 1 || len(raw) == 3, "unexpected length %d", len(raw))

	_, _, err = execute(t, nil, "random", "-p", "ipv4", "-n", "0")
	assert.ErrorContains(t, err, "--count must be a positive integer")
}

func TestShow(t *testing.T) {
	out, _, err := execute(t, nil, "show", "-p", "icmp", "--set", "type=echo-reply", "-s", "id=0x10", "-s", "sequence=7")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, ": ByteEnumField = 0 (8)"))
	assert.Check(t, is.Contains(out, ": ShortField = 16 (0)"))
	assert.Check(t, is.Contains(out, "format: !BBHHH"))
	assert.Check(t, is.Contains(out, "size:   8B"))
	assert.Check(t, is.Contains(out, "0000  00 00 00 00 00 10 00 07"))

	_, _, err = execute(t, nil, "show", "-p", "icmp", "--set", "type")
	assert.ErrorContains(t, err, "expected NAME=VALUE")
	_, _, err = execute(t, nil, "show", "-p", "icmp", "--set", "kind=1")
	assert.ErrorIs(t, err, fieldkit.ErrName)
}

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"a=1", "b=0x10", "c=-2", "d=18446744073709551615", "e=df", "f="})
	assert.NilError(t, err)
	assert.DeepEqual(t, values, fieldkit.Values{
		"a": int64(1),
		"b": int64(16),
		"c": int64(-2),
		"d": uint64(18446744073709551615),
		"e": "df",
		"f": "",
	})
}
