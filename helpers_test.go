package fieldkit

import (
	"testing"

	"github.com/pkg/errors"
)

type flag int

const (
	flagReserved flag = iota
	flagDF
	flagMF
)

type animal uint16

const (
	animalLion   animal = 1
	animalTurtle animal = 5
	animalPython animal = 7
)

var (
	flagsEnum          = Enumeration{int64(flagReserved): "reserved", int64(flagDF): "df", int64(flagMF): "mf"}
	identificationEnum = Enumeration{int64(animalLion): "lion", int64(animalTurtle): "turtle", int64(animalPython): "python"}
)

func newMiniIP() *Template {
	return Must(NewTemplate("MiniIP",
		Must(ByteBitsField([]*FieldPart{
			Must(NewFieldPart("version", 4, 4)),
			Must(NewFieldPart("ihl", 5, 4)),
		})),
		Must(ShortField("length", 20)),
		Must(ShortField("identification", 1, WithEnum(identificationEnum))),
		Must(ShortBitsField([]*FieldPart{
			Must(NewFieldPart("flags", 0b010, 3, WithEnum(flagsEnum))),
			Must(NewFieldPart("offset", 0, 13)),
		}, WithHex())),
	))
}

func newMiniBody() *Template {
	return Must(NewTemplate("MiniBody",
		Must(ShortField("arms", 2)),
		Must(ByteField("head", 1)),
		Must(ShortField("foot", 2)),
		Must(ShortField("teeth", 32)),
		Must(ByteField("nose", 1)),
	))
}

func newFruit() *Template {
	apples := func(p *Packet) uint64 {
		n, _ := p.Uint("apples")
		return n
	}
	return Must(NewTemplate("Fruit",
		Must(ShortField("apples", 2)),
		Must(NewConditionalField(Must(ShortField("pie", 1)), func(p *Packet) bool { return apples(p) <= 2 })),
		Must(NewConditionalField(Must(ShortField("juice", 1)), func(p *Packet) bool { return apples(p) > 2 })),
	))
}

// rawMiniIP 是 MiniIP 默认值的编码结果
var rawMiniIP = []byte{0x45, 0x00, 0x14, 0x00, 0x01, 0x40, 0x00}

var rawMiniBody = []byte{0x00, 0x02, 0x01, 0x00, 0x02, 0x00, 0x20, 0x01}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected an error wrapping %v, got %v", target, err)
	}
}
