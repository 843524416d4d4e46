package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shengyanli1982/fieldkit"
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

[[fields]]
name = "flags"
kind = "bits"
size = 1

  [[fields.parts]]
  name = "ripe"
  bits = 1
  default = 1

  [[fields.parts]]
  name = "color"
  bits = 7
  default = 2
  enum = { 1 = "green", 2 = "red" }

[[fields]]
name = "origin"
kind = "short"
order = "little"
default = "spain"
enum = { 1 = "spain", 2 = "morocco" }

[[fields]]
name = "label"
kind = "string"
length = 4
default = "ABCD"

[[fields]]
name = "note_length"
kind = "uint8"

[[fields]]
name = "note"
kind = "varstring"
size_from = "note_length"
max_length = 16
`

func TestParse(t *testing.T) {
	l, err := Parse([]byte(fruitLayout))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	expected := &Layout{
		Name: "Fruit",
		Fields: []FieldSpec{
			{Name: "apples", Kind: "byte", Default: int64(1)},
			{Name: "pie", Kind: "short", Hex: true, When: "apples > 2"},
			{Name: "flags", Kind: "bits", Size: 1, Parts: []PartSpec{
				{Name: "ripe", Bits: 1, Default: 1},
				{Name: "color", Bits: 7, Default: 2, Enum: map[string]string{"1": "green", "2": "red"}},
			}},
			{Name: "origin", Kind: "short", Order: "little", Default: "spain",
				Enum: map[string]string{"1": "spain", "2": "morocco"}},
			{Name: "label", Kind: "string", Length: 4, Default: "ABCD"},
			{Name: "note_length", Kind: "uint8"},
			{Name: "note", Kind: "varstring", SizeFrom: "note_length", MaxLength: 16},
		},
	}
	if diff := cmp.Diff(expected, l); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutTemplate(t *testing.T) {
	l, err := Load(strings.NewReader(fruitLayout))
	if err != nil {
		t.Fatal(err)
	}
	tpl, err := l.Template()
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}

	p, err := tpl.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	// apples=1 时 pie 不出现在线路上
	// pie is absent while apples is 1
	expected := []byte{0x01, 0x82, 0x01, 0x00, 'A', 'B', 'C', 'D', 0x00}
	if diff := cmp.Diff(expected, p.Bytes()); diff != "" {
		t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
	}

	data := []byte{0x03, 0x12, 0x34, 0x01, 0x02, 0x00, 'W', 'X', 'Y', 'Z', 0x03, 'y', 'u', 'm'}
	q := tpl.FromBytes(data)
	if !q.AllFieldsComputed() {
		t.Fatal("AllFieldsComputed() = false")
	}
	got := map[string]interface{}{}
	for _, name := range []string{"apples", "pie", "ripe", "color", "origin", "label", "note"} {
		got[name], _ = q.Get(name)
	}
	want := map[string]interface{}{
		"apples": uint64(3),
		"pie":    uint64(0x1234),
		"ripe":   uint64(0),
		"color":  uint64(1),
		"origin": uint64(2),
		"label":  "WXYZ",
		"note":   "yum",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded values mismatch (-want +got):\n%s", diff)
	}
	if err := q.Set("color", "red"); err != nil {
		t.Errorf("Set(color, red) error = %v", err)
	}
}

func TestLayoutKinds(t *testing.T) {
	const layout = `
name = "Kinds"

[[fields]]
name = "magic"
kind = "string"
binary = true
length = 2
default = "\u0001\u0002"

[[fields]]
name = "ratio"
kind = "float16"
default = 1.5

[[fields]]
name = "code"
kind = "uint8"
enum = { 0x0 = "ok", 0x1 = "fail" }

[[fields]]
name = "detail"
kind = "uint8"
when = "code in 1,2"

[[fields]]
name = "rest"
kind = "varstring"
binary = true
`
	l, err := Parse([]byte(layout))
	if err != nil {
		t.Fatal(err)
	}
	tpl, err := l.Template()
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}

	q := tpl.FromBytes([]byte{0x01, 0x02, 0x3e, 0x00, 0x01, 0x07, 0xaa, 0xbb})
	if !q.AllFieldsComputed() {
		t.Fatal("AllFieldsComputed() = false")
	}
	magic, _ := q.Get("magic")
	ratio, _ := q.Get("ratio")
	detail, _ := q.Get("detail")
	rest, _ := q.Get("rest")
	if diff := cmp.Diff([]interface{}{[]byte{1, 2}, 1.5, uint64(7), []byte{0xaa, 0xbb}},
		[]interface{}{magic, ratio, detail, rest}); diff != "" {
		t.Errorf("decoded values mismatch (-want +got):\n%s", diff)
	}

	q = tpl.FromBytes([]byte{0x01, 0x02, 0x3e, 0x00, 0x00, 0xaa})
	if rest, _ := q.Get("rest"); !cmp.Equal(rest, []byte{0xaa}) {
		t.Errorf("rest = %v, detail should be skipped when code is 0", rest)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		err    error
	}{
		{"Unknown Kind", `name = "P"
[[fields]]
name = "a"
kind = "float"`, fieldkit.ErrType},
		{"Bad Order", `name = "P"
[[fields]]
name = "a"
kind = "byte"
order = "middle"`, fieldkit.ErrType},
		{"Bad Enum Key", `name = "P"
[[fields]]
name = "a"
kind = "byte"
enum = { one = "x" }`, fieldkit.ErrValue},
		{"Unknown Enum Default", `name = "P"
[[fields]]
name = "a"
kind = "byte"
default = "three"
enum = { 1 = "one" }`, fieldkit.ErrValue},
		{"Default Out Of Range", `name = "P"
[[fields]]
name = "a"
kind = "byte"
default = 300`, fieldkit.ErrRange},
		{"Condition Before Field", `name = "P"
[[fields]]
name = "a"
kind = "byte"
when = "b == 1"
[[fields]]
name = "b"
kind = "byte"`, fieldkit.ErrName},
		{"Bad Operator", `name = "P"
[[fields]]
name = "a"
kind = "byte"
[[fields]]
name = "b"
kind = "byte"
when = "a ~ 1"`, fieldkit.ErrValue},
		{"Bad Operand", `name = "P"
[[fields]]
name = "a"
kind = "byte"
[[fields]]
name = "b"
kind = "byte"
when = "a == one"`, fieldkit.ErrValue},
		{"Bad Bits", `name = "P"
[[fields]]
name = "f"
kind = "bits"
size = 1
  [[fields.parts]]
  name = "x"
  bits = 3`, fieldkit.ErrValue},
		{"Duplicate", `name = "P"
[[fields]]
name = "a"
kind = "byte"
[[fields]]
name = "a"
kind = "short"`, fieldkit.ErrName},
		{"No Fields", `name = "P"`, fieldkit.ErrValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Parse([]byte(tt.layout))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			_, err = l.Template()
			if !errors.Is(err, tt.err) {
				t.Errorf("Template() error = %v, want %v", err, tt.err)
			}
		})
	}

	if _, err := Parse([]byte("name = ")); err == nil {
		t.Error("Parse() accepted invalid TOML")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fruit.toml")
	if err := os.WriteFile(path, []byte(fruitLayout), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if l.Name != "Fruit" || len(l.Fields) != 7 {
		t.Errorf("LoadFile() = %s with %d fields", l.Name, len(l.Fields))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile() error = %v, want a not exist error", err)
	}
}
