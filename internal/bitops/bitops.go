// Package bitops provides the bit manipulation used to pack field parts into a
// single storage integer. This is not a replacement for math/bits.
//
// bitops 包提供将字段分片打包进单个存储整数所需的位运算。
package bitops

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// MaxValue 返回 n 位无符号整数能表示的最大值
// MaxValue returns the largest unsigned value representable in n bits.
func MaxValue(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<n - 1
}

// Mask 创建覆盖 [start, end) 位的掩码，位序从 0 开始
// Mask creates a mask for setting, getting and clearing the bits from start
// (inclusive) to end (exclusive). Index starts at 0, so Mask(1, 4) covers
// bits 1 to 3. If start >= end or end exceeds the width of U, this panics.
func Mask[U constraints.Unsigned](start, end uint64) U {
	var zero U
	size := width(zero)
	if start >= end {
		panic("start cannot be >= end")
	}
	if end > size {
		panic(fmt.Sprintf("end %d exceeds width %d", end, size))
	}
	return U(MaxValue(uint(end-start)) << start)
}

// ClearBits 清除 [from, to) 范围内的位
// ClearBits clears all bits from "from" until "to".
func ClearBits[U constraints.Unsigned](store U, from, to uint64) U {
	if from >= to {
		return store
	}
	return store &^ U(MaxValue(uint(to-from))<<from)
}

// SetValue 将 val 写入 store 的 [start, end) 位，写入前会先清空该范围
// SetValue stores val in store starting at bit start and ending at bit end
// (exclusive). Bits of val above the range width are discarded. The existing
// bits in the range are cleared first. If start >= end, this panics.
func SetValue[I, U constraints.Unsigned](val I, store U, start, end uint64) U {
	if start >= end {
		panic("start cannot be >= end")
	}
	store = ClearBits(store, start, end)
	v := uint64(val) & MaxValue(uint(end-start))
	return store | U(v<<start)
}

// GetValue 读取 SetValue 写入的值
// GetValue retrieves a value stored with SetValue. bitMask must be the mask
// produced by Mask(start, end).
func GetValue[U, U1 constraints.Unsigned](store U, bitMask U, start uint64) U1 {
	return U1((store & bitMask) >> start)
}

// FitsIn 判断 val 是否能放入 n 位
// FitsIn reports whether val is representable in n bits.
func FitsIn[I constraints.Unsigned](val I, n uint) bool {
	return uint64(val) <= MaxValue(n)
}

func width[U constraints.Unsigned](n U) uint64 {
	switch any(n).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	default:
		return 64
	}
}
