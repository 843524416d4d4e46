package bitops

import (
	"math"
	"testing"
)

func TestSetValue(t *testing.T) {
	storeStart := uint8(1)
	// We start at bit 1 so bit 0 stays set; that way we can make sure we
	// only retrieve the values we think we are.
	for start := uint64(1); start < 8; start++ {
		for end := start + 1; end <= 8; end++ {
			maxBits := end - start
			maxValue := uint16(math.Pow(2, float64(maxBits)))
			for val := uint16(0); val < maxValue; val++ {
				store := SetValue(uint8(val), storeStart, start, end)
				bitMask := Mask[uint8](start, end)
				got := GetValue[uint8, uint8](store, bitMask, start)

				if uint16(got) != val {
					t.Fatalf("TestSetValue(start: %d, end: %d, val: %d): got %d, want %d", start, end, val, got, val)
				}
				if store&1 != 1 {
					t.Fatalf("TestSetValue(start: %d, end: %d, val: %d): bit 0 was cleared", start, end, val)
				}
			}
		}
	}
}

func TestSetValueOverwrites(t *testing.T) {
	store := SetValue(uint8(0xF), uint16(0), 4, 8)
	store = SetValue(uint8(0x5), store, 4, 8)
	if store != 0x50 {
		t.Fatalf("TestSetValueOverwrites: got %#x, want %#x", store, 0x50)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		start, end uint64
		want       uint64
	}{
		{0, 1, 0x1},
		{1, 4, 0xE},
		{4, 8, 0xF0},
		{0, 64, math.MaxUint64},
		{60, 64, 0xF000000000000000},
	}

	for _, test := range tests {
		got := Mask[uint64](test.start, test.end)
		if got != test.want {
			t.Errorf("TestMask(%d, %d): got %#x, want %#x", test.start, test.end, got, test.want)
		}
	}
}

func TestMaskPanics(t *testing.T) {
	defer func() {
		if err := recover(); err == nil {
			t.Fatal("failed to panic on end beyond storage width")
		}
	}()
	Mask[uint8](0, 9)
}

func TestClearBits(t *testing.T) {
	// 11111111 with bits 2..5 cleared is 11000011
	got := ClearBits(uint8(0xFF), 2, 6)
	if got != 0xC3 {
		t.Fatalf("TestClearBits: got %#x, want %#x", got, 0xC3)
	}
	if got := ClearBits(uint8(0xFF), 3, 3); got != 0xFF {
		t.Fatalf("TestClearBits(empty range): got %#x, want 0xff", got)
	}
}

func TestMaxValueAndFitsIn(t *testing.T) {
	if MaxValue(0) != 0 || MaxValue(3) != 7 || MaxValue(64) != math.MaxUint64 {
		t.Fatal("MaxValue returned an unexpected bound")
	}
	if !FitsIn(uint8(7), 3) || FitsIn(uint8(8), 3) {
		t.Fatal("FitsIn did not respect the 3 bit bound")
	}
}
