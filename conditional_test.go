package fieldkit

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

func TestConditionalFieldConstruction(t *testing.T) {
	_, err := NewConditionalField(nil, func(*Packet) bool { return true })
	assertErrorIs(t, err, ErrType)

	var missing *NumericField
	_, err = NewConditionalField(missing, func(*Packet) bool { return true })
	assertErrorIs(t, err, ErrType)

	_, err = NewConditionalField(Must(ByteField("a", 1)), nil)
	assertErrorIs(t, err, ErrType)
}

func TestConditionalFieldDelegates(t *testing.T) {
	inner := Must(ShortField("pie", 1, WithHex()))
	f := Must(NewConditionalField(inner, func(*Packet) bool { return false }))

	if f.Name() != "pie" || f.Size() != 2 || f.StructFormat() != "!H" {
		t.Errorf("Name() = %s, Size() = %d, StructFormat() = %s", f.Name(), f.Size(), f.StructFormat())
	}
	if err := f.SetValue(7); err != nil {
		t.Fatal(err)
	}
	if f.Value() != uint64(7) || f.Default() != uint64(1) {
		t.Errorf("Value() = %v, Default() = %v", f.Value(), f.Default())
	}
	// 构造时复制被包装的字段
	// The wrapped field is cloned on construction
	if inner.Value() != uint64(1) {
		t.Errorf("caller field value = %v, want 1", inner.Value())
	}
	if f.String() != "ConditionalField(<ShortField: name=pie, value=0x7, default=0x1>)" {
		t.Errorf("String() = %s", f.String())
	}
	if err := f.SetValue(f.RandomValue()); err != nil {
		t.Errorf("SetValue(RandomValue()) error = %v", err)
	}

	c := f.Clone().(*ConditionalField)
	if err := c.SetValue(9); err != nil {
		t.Fatal(err)
	}
	if f.Value() == uint64(9) {
		t.Error("Clone() shares the wrapped field")
	}
}

func TestConditionalFieldWire(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		active := rapid.Bool().Draw(t, "active")
		value := rapid.Uint16().Draw(t, "value")
		input := rapid.SliceOfN(rapid.Byte(), 2, 8).Draw(t, "input")

		f := Must(NewConditionalField(Must(ShortField("pie", value)), func(*Packet) bool { return active }))

		encoded := f.Encode(nil)
		if active != (len(encoded) == 2) {
			t.Fatalf("active = %v but Encode() = % x", active, encoded)
		}

		rest := f.Decode(input, nil)
		consumed := len(input) - len(rest)
		if active && consumed != 2 {
			t.Fatalf("consumed %d bytes, want 2", consumed)
		}
		if !active && !bytes.Equal(rest, input) {
			t.Fatalf("consumed %d bytes, want 0", consumed)
		}
	})
}
