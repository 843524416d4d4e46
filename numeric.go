package fieldkit

import (
	"fmt"
)

// kindFieldName 用于字段的可读表示
var kindFieldName = map[Kind]string{
	Uint8:  "ByteField",
	Int8:   "SignedByteField",
	Uint16: "ShortField",
	Int16:  "SignedShortField",
	Uint32: "IntField",
	Int32:  "SignedIntField",
	Uint64: "LongField",
	Int64:  "SignedLongField",
}

// NumericField 表示固定宽度的整数字段
// 类型在构造时选定，并携带自身的取值范围
//
// NumericField is a fixed width integer field. Its Kind is selected at
// construction and carries the bounds used to validate every value.
type NumericField struct {
	base
	hexCapability
	enumCapability

	kind  Kind
	order Order
	def   integer
	value integer
}

// NewNumericField 创建指定类型的数值字段
// NewNumericField creates a numeric field of the given kind. def may be any
// Go integer, including a named integer type.
func NewNumericField(name string, kind Kind, def interface{}, opts ...Option) (*NumericField, error) {
	if err := validateName("field", name); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, typeErrorf("%s has an invalid numeric kind %d", name, kind)
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	f := &NumericField{
		base:           base{name: name},
		hexCapability:  hexCapability{hex: options.Hex},
		enumCapability: enumCapability{enum: options.Enum.clone()},
		kind:           kind,
		order:          options.Order,
	}
	n, err := f.check("default", def)
	if err != nil {
		return nil, err
	}
	if err := f.checkKeys(kind.Min(), kind.Max()); err != nil {
		return nil, err
	}
	f.def, f.value = n, n
	return f, nil
}

// ByteField 创建单字节无符号字段
func ByteField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Uint8, def, opts...)
}

// SignedByteField 创建单字节有符号字段
func SignedByteField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Int8, def, opts...)
}

// ShortField 创建双字节无符号字段
func ShortField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Uint16, def, opts...)
}

// SignedShortField 创建双字节有符号字段
func SignedShortField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Int16, def, opts...)
}

// IntField 创建四字节无符号字段
func IntField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Uint32, def, opts...)
}

// SignedIntField 创建四字节有符号字段
func SignedIntField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Int32, def, opts...)
}

// LongField 创建八字节无符号字段
func LongField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Uint64, def, opts...)
}

// SignedLongField 创建八字节有符号字段
func SignedLongField(name string, def interface{}, opts ...Option) (*NumericField, error) {
	return NewNumericField(name, Int64, def, opts...)
}

// check 校验值的类型和范围
// check validates the kind and the bounds of v, attribute is "default" or
// "value" and only shows up in the error message.
func (f *NumericField) check(attribute string, v interface{}) (integer, error) {
	n, ok := toInteger(v)
	if !ok {
		return integer{}, typeErrorf("%s %s must be an integer but you provided %v", f.name, attribute, v)
	}
	if !f.kind.contains(n) {
		return integer{}, rangeErrorf("%s %s must be between %d and %d but you provided %s",
			f.name, attribute, f.kind.Min(), f.kind.Max(), n)
	}
	return n, nil
}

// Kind 返回字段的整数类型
func (f *NumericField) Kind() Kind { return f.kind }

// Order 返回字段的字节序
func (f *NumericField) Order() Order { return f.order }

func (f *NumericField) export(n integer) interface{} {
	if f.kind.Signed() {
		return n.i
	}
	return n.u
}

// Default 返回默认值，有符号类型为 int64，无符号类型为 uint64
// Default returns an int64 for signed kinds and a uint64 for unsigned kinds.
func (f *NumericField) Default() interface{} { return f.export(f.def) }

// Value 返回当前值，有符号类型为 int64，无符号类型为 uint64
// Value returns an int64 for signed kinds and a uint64 for unsigned kinds.
func (f *NumericField) Value() interface{} { return f.export(f.value) }

// SetValue 设置字段值
func (f *NumericField) SetValue(v interface{}) error {
	n, err := f.check("value", v)
	if err != nil {
		return err
	}
	f.value = n
	return nil
}

// SetByName 通过枚举名称设置字段值
// SetByName sets the value represented by name in the field enumeration.
func (f *NumericField) SetByName(name string) error {
	v, err := f.resolve(f.name, name)
	if err != nil {
		return err
	}
	return f.SetValue(v)
}

// Size 返回字段的字节数
func (f *NumericField) Size() int { return f.kind.Size() }

// StructFormat 返回字段的 struct 格式
func (f *NumericField) StructFormat() string {
	return f.order.Prefix() + f.kind.Format()
}

// Encode 按字节序编码字段值
func (f *NumericField) Encode(_ *Packet) []byte {
	buf := make([]byte, f.kind.Size())
	writeInteger(buf, f.bits(), f.kind, f.order)
	return buf
}

// bits 返回值的二进制补码表示
func (f *NumericField) bits() uint64 {
	if f.value.neg {
		return uint64(f.value.i)
	}
	return f.value.u
}

// Decode 从 buf 中解析字段值
func (f *NumericField) Decode(buf []byte, _ *Packet) []byte {
	size := f.kind.Size()
	if len(buf) < size {
		f.computed = false
		return shortBuffer(f, size, len(buf))
	}
	f.value = readInteger(buf[:size], f.kind, f.order)
	f.computed = true
	return buf[size:]
}

// RandomValue 返回类型范围内的随机值
func (f *NumericField) RandomValue() interface{} {
	return f.export(randomInteger(f.kind))
}

// Clone 返回字段的深拷贝
func (f *NumericField) Clone() Field {
	c := *f
	c.enum = f.enum.clone()
	return &c
}

// TypeName 返回字段类型的名称
func (f *NumericField) TypeName() string {
	name := kindFieldName[f.kind]
	if f.enum != nil {
		name = name[:len(name)-len("Field")] + "EnumField"
	}
	return name
}

// Display 返回考虑十六进制显示后的值
func (f *NumericField) Display() string { return f.display(f.Value()) }

// String 返回字段的可读表示
func (f *NumericField) String() string {
	return fmt.Sprintf("<%s: name=%s, value=%s, default=%s>",
		f.TypeName(), f.name, f.display(f.Value()), f.display(f.Default()))
}

// writeInteger 将整数写入缓冲区
// writeInteger writes the two's complement bits of an integer of kind k.
func writeInteger(buf []byte, bits uint64, k Kind, order Order) {
	byteOrder := order.ByteOrder()
	switch k.Size() {
	case 1:
		buf[0] = byte(bits)
	case 2:
		byteOrder.PutUint16(buf, uint16(bits))
	case 4:
		byteOrder.PutUint32(buf, uint32(bits))
	case 8:
		byteOrder.PutUint64(buf, bits)
	}
}

// readInteger 从缓冲区读取整数
// readInteger reads an integer of kind k, sign extending signed kinds.
func readInteger(buf []byte, k Kind, order Order) integer {
	byteOrder := order.ByteOrder()
	var raw uint64
	switch k.Size() {
	case 1:
		raw = uint64(buf[0])
	case 2:
		raw = uint64(byteOrder.Uint16(buf))
	case 4:
		raw = uint64(byteOrder.Uint32(buf))
	case 8:
		raw = byteOrder.Uint64(buf)
	}

	if !k.Signed() {
		return integer{i: int64(raw), u: raw}
	}

	var i int64
	switch k {
	case Int8:
		i = int64(int8(raw))
	case Int16:
		i = int64(int16(raw))
	case Int32:
		i = int64(int32(raw))
	default:
		i = int64(raw)
	}
	if i < 0 {
		return integer{neg: true, i: i}
	}
	return integer{i: i, u: uint64(i)}
}
