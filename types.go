package fieldkit

import (
	"fmt"
	"math"
)

// Kind 定义了数值字段支持的整数类型
// 每种类型携带自身的宽度、符号和取值范围
//
// Kind enumerates the integer layouts a numeric field can take.
// Each kind carries its own width, signedness and bounds.
type Kind int

const (
	Invalid Kind = iota // 无效类型
	Uint8               // 8位无符号整数
	Int8                // 8位整数
	Uint16              // 16位无符号整数
	Int16               // 16位整数
	Uint32              // 32位无符号整数
	Int32               // 32位整数
	Uint64              // 64位无符号整数
	Int64               // 64位整数
)

// kindInfo 描述了一种类型的静态属性
type kindInfo struct {
	name   string
	size   int
	signed bool
	min    int64
	max    uint64
	format string
}

var kindTable = map[Kind]kindInfo{
	Uint8:  {"uint8", 1, false, 0, math.MaxUint8, "B"},
	Int8:   {"int8", 1, true, math.MinInt8, math.MaxInt8, "b"},
	Uint16: {"uint16", 2, false, 0, math.MaxUint16, "H"},
	Int16:  {"int16", 2, true, math.MinInt16, math.MaxInt16, "h"},
	Uint32: {"uint32", 4, false, 0, math.MaxUint32, "I"},
	Int32:  {"int32", 4, true, math.MinInt32, math.MaxInt32, "i"},
	Uint64: {"uint64", 8, false, 0, math.MaxUint64, "Q"},
	Int64:  {"int64", 8, true, math.MinInt64, math.MaxInt64, "q"},
}

// typeStrToKind 定义了字符串到类型的映射关系
// typeStrToKind maps layout names (as used by schema files) to kinds.
var typeStrToKind = map[string]Kind{
	"byte":   Uint8,
	"uint8":  Uint8,
	"int8":   Int8,
	"short":  Uint16,
	"uint16": Uint16,
	"int16":  Int16,
	"int":    Uint32,
	"uint32": Uint32,
	"int32":  Int32,
	"long":   Uint64,
	"uint64": Uint64,
	"int64":  Int64,
}

// ParseKind 根据名称返回对应的类型
// ParseKind returns the kind registered under name.
func ParseKind(name string) (Kind, error) {
	if k, ok := typeStrToKind[name]; ok {
		return k, nil
	}
	return Invalid, typeErrorf("unknown numeric kind %q", name)
}

// KindForSize 返回给定字节宽度的无符号类型
// KindForSize returns the unsigned kind stored in size bytes.
func KindForSize(size int) (Kind, error) {
	switch size {
	case 1:
		return Uint8, nil
	case 2:
		return Uint16, nil
	case 4:
		return Uint32, nil
	case 8:
		return Uint64, nil
	default:
		return Invalid, valueErrorf("storage width must be 1, 2, 4 or 8 bytes but you provided %d", size)
	}
}

// String 返回类型的字符串表示
func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.name
	}
	return "invalid"
}

// Valid 判断类型是否有效
func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// Size 返回类型的字节大小
// Size returns the width in bytes of the kind.
func (k Kind) Size() int {
	info, ok := kindTable[k]
	if !ok {
		panic(fmt.Sprintf("cannot resolve size of kind: %d", k))
	}
	return info.size
}

// Bits returns the width in bits of the kind.
func (k Kind) Bits() int { return k.Size() * 8 }

// Signed reports whether the kind holds two's complement values.
func (k Kind) Signed() bool { return kindTable[k].signed }

// Min returns the lower bound of the kind.
func (k Kind) Min() int64 { return kindTable[k].min }

// Max returns the upper bound of the kind.
func (k Kind) Max() uint64 { return kindTable[k].max }

// Format 返回 struct 模块风格的格式字符
// Format returns the struct-module style format character of the kind.
func (k Kind) Format() string { return kindTable[k].format }

// contains 判断整数是否在类型范围内
// contains reports whether n fits the bounds of the kind.
func (k Kind) contains(n integer) bool {
	if n.neg {
		return k.Signed() && n.i >= k.Min()
	}
	return n.u <= k.Max()
}
