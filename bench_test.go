package fieldkit

import (
	"bytes"
	"testing"
)

func BenchmarkEncode(b *testing.B) {
	p := Must(newMiniIP().New(nil))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Bytes()
	}
}

func BenchmarkDecode(b *testing.B) {
	t := newMiniIP()
	for i := 0; i < b.N; i++ {
		if p := t.FromBytes(rawMiniIP); !p.AllFieldsComputed() {
			b.Fatal("incomplete packet")
		}
	}
}

func BenchmarkConditionalDecode(b *testing.B) {
	t := newFruit()
	raw := []byte{0x00, 0x03, 0x00, 0x07}
	for i := 0; i < b.N; i++ {
		_ = t.FromBytes(raw)
	}
}

func BenchmarkPack(b *testing.B) {
	p := Must(newMiniBody().New(nil))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := Pack(&buf, p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnpack(b *testing.B) {
	t := newMiniBody()
	for i := 0; i < b.N; i++ {
		if _, err := Unpack(bytes.NewReader(rawMiniBody), t); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvolve(b *testing.B) {
	p := Must(newMiniIP().New(nil))
	values := Values{"flags": "mf", "offset": 185}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Evolve(values); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRandom(b *testing.B) {
	t := newMiniBody()
	for i := 0; i < b.N; i++ {
		if _, err := t.Random(); err != nil {
			b.Fatal(err)
		}
	}
}
