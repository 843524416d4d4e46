package fieldkit

import (
	"fmt"
	"math"
	"strconv"
)

// MaxFloat16 是 binary16 能表示的最大有限值
const MaxFloat16 = 65504

// Float16Field 表示 16 位浮点数字段
// 内部以 float64 存储以便计算，编码为 IEEE 754-2008 binary16 格式
//
// Float16Field is a 16-bit floating-point field. The value is kept as a
// float64 and serialized to the IEEE 754-2008 binary16 format:
//
//	1 bit  : Sign bit
//	5 bits : Exponent
//	10 bits: Fraction
type Float16Field struct {
	base

	order Order
	def   float64
	value float64
}

// NewFloat16Field 创建半精度浮点字段
func NewFloat16Field(name string, def interface{}, opts ...Option) (*Float16Field, error) {
	if err := validateName("field", name); err != nil {
		return nil, err
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	f := &Float16Field{base: base{name: name}, order: options.Order}
	v, err := f.check("default", def)
	if err != nil {
		return nil, err
	}
	f.def, f.value = v, v
	return f, nil
}

func (f *Float16Field) check(attribute string, v interface{}) (float64, error) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	default:
		i, ok := toInteger(v)
		if !ok {
			return 0, typeErrorf("%s %s must be a number but you provided %v", f.name, attribute, v)
		}
		if i.neg {
			x = float64(i.i)
		} else {
			x = float64(i.u)
		}
	}
	if !math.IsInf(x, 0) && !math.IsNaN(x) && math.Abs(x) > MaxFloat16 {
		return 0, rangeErrorf("%s %s must be between %d and %d but you provided %v",
			f.name, attribute, -MaxFloat16, MaxFloat16, v)
	}
	return x, nil
}

func (f *Float16Field) Default() interface{} { return f.def }

// Value 返回 float64 形式的当前值
func (f *Float16Field) Value() interface{} { return f.value }

// SetValue 接受浮点数或整数，超出 binary16 范围的有限值返回 ErrRange
func (f *Float16Field) SetValue(v interface{}) error {
	x, err := f.check("value", v)
	if err != nil {
		return err
	}
	f.value = x
	return nil
}

func (f *Float16Field) Size() int { return 2 }

// StructFormat 使用半精度浮点的格式字符 "e"
func (f *Float16Field) StructFormat() string { return f.order.Prefix() + "e" }

func (f *Float16Field) Encode(_ *Packet) []byte {
	buf := make([]byte, 2)
	f.order.ByteOrder().PutUint16(buf, float16Bits(f.value))
	return buf
}

func (f *Float16Field) Decode(buf []byte, _ *Packet) []byte {
	if len(buf) < 2 {
		f.computed = false
		return shortBuffer(f, 2, len(buf))
	}
	f.value = float16FromBits(f.order.ByteOrder().Uint16(buf))
	f.computed = true
	return buf[2:]
}

// RandomValue 返回一个有限的随机 binary16 值
func (f *Float16Field) RandomValue() interface{} {
	for {
		bits := RandUint16()
		if (bits>>10)&0x1f != 0x1f {
			return float16FromBits(bits)
		}
	}
}

func (f *Float16Field) Clone() Field {
	c := *f
	return &c
}

func (f *Float16Field) String() string {
	return fmt.Sprintf("<Float16Field: name=%s, value=%s, default=%s>", f.name,
		strconv.FormatFloat(f.value, 'g', -1, 32), strconv.FormatFloat(f.def, 'g', -1, 32))
}

// float16Bits 将 float64 转换为 binary16，尾数截断，
// 超出范围的值变为无穷大，过小的值变为零
func float16Bits(val float64) uint16 {
	sign := uint16(0)
	if math.Signbit(val) {
		sign = 1
	}

	var frac, exp uint16
	switch {
	case math.IsNaN(val):
		exp, frac = 0x1f, 1
	case math.IsInf(val, 0):
		exp = 0x1f
	case val == 0:
	default:
		bits := math.Float64bits(val)
		e := int((bits>>52)&0x7ff) - 1023
		switch {
		case e > 15:
			exp = 0x1f
		case e < -14:
			// subnormal: value = frac * 2^-24
			frac = uint16(math.Abs(val) * (1 << 24))
		default:
			exp = uint16(e + 15)
			frac = uint16((bits >> 42) & 0x3ff)
		}
	}
	return (sign << 15) | (exp << 10) | (frac & 0x3ff)
}

// float16FromBits 将 binary16 转换为 float64
func float16FromBits(val uint16) float64 {
	sign := (val >> 15) & 1
	exp := int((val >> 10) & 0x1f)
	frac := val & 0x3ff

	var x float64
	switch {
	case exp == 0x1f && frac != 0:
		return math.NaN()
	case exp == 0x1f:
		x = math.Inf(1)
	case exp == 0:
		x = float64(frac) / (1 << 24)
	default:
		x = math.Ldexp(1+float64(frac)/1024, exp-15)
	}
	if sign == 1 {
		return -x
	}
	return x
}
