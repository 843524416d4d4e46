package fieldkit

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/exp/constraints"
)

// AsciiLetters 是随机字符串默认使用的字符集
const AsciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randUnsigned 返回 [0, max] 范围内的均匀随机数
func randUnsigned[U constraints.Unsigned](max U) U {
	if uint64(max) == ^uint64(0) {
		return U(rand.Uint64())
	}
	return U(rand.Uint64N(uint64(max) + 1))
}

// randSigned 返回 [min, max] 范围内的均匀随机数
func randSigned[I constraints.Signed](min, max I) I {
	span := uint64(int64(max)) - uint64(int64(min))
	return I(int64(uint64(int64(min)) + randUnsigned(span)))
}

// RandUint8 returns a random unsigned byte.
func RandUint8() uint8 { return randUnsigned(uint8(0xFF)) }

// RandInt8 returns a random signed byte.
func RandInt8() int8 { return randSigned(int8(-1<<7), int8(1<<7-1)) }

// RandUint16 returns a random unsigned short.
func RandUint16() uint16 { return randUnsigned(uint16(0xFFFF)) }

// RandInt16 returns a random signed short.
func RandInt16() int16 { return randSigned(int16(-1<<15), int16(1<<15-1)) }

// RandUint32 returns a random unsigned int.
func RandUint32() uint32 { return randUnsigned(uint32(0xFFFFFFFF)) }

// RandInt32 returns a random signed int.
func RandInt32() int32 { return randSigned(int32(-1<<31), int32(1<<31-1)) }

// RandUint64 returns a random unsigned long.
func RandUint64() uint64 { return rand.Uint64() }

// RandInt64 returns a random signed long.
func RandInt64() int64 { return int64(rand.Uint64()) }

// RandString 返回指定长度的随机字符串
// length 为 0 时随机选择 20 到 150 之间的长度，charset 为空时使用 AsciiLetters
//
// RandString returns a random string. A zero length picks one between 20 and
// 150; an empty charset defaults to AsciiLetters.
func RandString(length int, charset string) (string, error) {
	if length < 0 {
		return "", valueErrorf("length must be a positive integer but you provided %d", length)
	}
	if length == 0 {
		length = 20 + rand.IntN(131)
	}
	if charset == "" {
		charset = AsciiLetters
	}
	chars := []rune(charset)

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteRune(chars[rand.IntN(len(chars))])
	}
	return sb.String(), nil
}

// randomInteger 返回类型范围内的随机整数
func randomInteger(k Kind) integer {
	if k.Signed() {
		v := randSigned(k.Min(), int64(k.Max()))
		if v < 0 {
			return integer{neg: true, i: v}
		}
		return integer{i: v, u: uint64(v)}
	}
	u := randUnsigned(k.Max())
	return integer{i: int64(u), u: u}
}

// randomText 返回指定长度的随机字符串，长度为 0 时返回空串
func randomText(length int) string {
	if length <= 0 {
		return ""
	}
	s, _ := RandString(length, AsciiLetters)
	return s
}
