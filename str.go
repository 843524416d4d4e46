package fieldkit

import (
	"bytes"
	"fmt"
)

// flavor 区分文本与原始字节两种字符串风格
type flavor struct {
	text bool
}

// bytesOf 按风格校验并取出字节
// bytesOf accepts a string for the text flavor and a []byte for the bytes
// flavor. Mixing flavors is a type error.
func (fl flavor) bytesOf(name, attribute string, v interface{}) ([]byte, error) {
	switch s := v.(type) {
	case string:
		if !fl.text {
			return nil, typeErrorf("%s %s must be bytes but you provided %q", name, attribute, s)
		}
		return []byte(s), nil
	case []byte:
		if fl.text {
			return nil, typeErrorf("%s %s must be a string but you provided %v", name, attribute, s)
		}
		return bytes.Clone(s), nil
	default:
		return nil, typeErrorf("%s %s must be a string or bytes but you provided %v", name, attribute, v)
	}
}

func (fl flavor) export(b []byte) interface{} {
	if fl.text {
		return string(b)
	}
	return bytes.Clone(b)
}

func detectFlavor(name string, def interface{}) (flavor, error) {
	switch def.(type) {
	case string:
		return flavor{text: true}, nil
	case []byte:
		return flavor{}, nil
	default:
		return flavor{}, typeErrorf("%s default must be a string or bytes but you provided %v", name, def)
	}
}

// FixedStringField 表示固定长度的字符串字段
// 默认值的类型决定了字段是文本（string）还是原始字节（[]byte）
//
// FixedStringField is a string of a fixed number of bytes. The type of the
// default selects the text (string) or raw bytes ([]byte) flavor.
type FixedStringField struct {
	base
	flavor

	length int
	order  Order
	def    []byte
	value  []byte
}

// NewFixedStringField 创建固定长度的字符串字段
func NewFixedStringField(name string, def interface{}, length int, opts ...Option) (*FixedStringField, error) {
	if err := validateName("field", name); err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, valueErrorf("%s length must be a positive integer but you provided %d", name, length)
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	fl, err := detectFlavor(name, def)
	if err != nil {
		return nil, err
	}
	f := &FixedStringField{base: base{name: name}, flavor: fl, length: length, order: options.Order}

	b, err := fl.bytesOf(name, "default", def)
	if err != nil {
		return nil, err
	}
	if len(b) != length {
		return nil, lengthErrorf("%s default length %d is different from the field length %d", name, len(b), length)
	}
	f.def, f.value = b, bytes.Clone(b)
	return f, nil
}

// Length 返回字段的固定长度
func (f *FixedStringField) Length() int { return f.length }

// Text 报告字段是否为文本风格
func (f *FixedStringField) Text() bool { return f.text }

func (f *FixedStringField) Default() interface{} { return f.export(f.def) }

func (f *FixedStringField) Value() interface{} { return f.export(f.value) }

// SetValue 设置字段值，长度必须与字段长度一致
func (f *FixedStringField) SetValue(v interface{}) error {
	b, err := f.bytesOf(f.name, "value", v)
	if err != nil {
		return err
	}
	if len(b) != f.length {
		return lengthErrorf("the length of %s value must be equal to %d but you provided %d", f.name, f.length, len(b))
	}
	f.value = b
	return nil
}

func (f *FixedStringField) Size() int { return f.length }

func (f *FixedStringField) StructFormat() string {
	return fmt.Sprintf("%s%ds", f.order.Prefix(), f.length)
}

func (f *FixedStringField) Encode(_ *Packet) []byte {
	return bytes.Clone(f.value)
}

func (f *FixedStringField) Decode(buf []byte, _ *Packet) []byte {
	if len(buf) < f.length {
		f.computed = false
		return shortBuffer(f, f.length, len(buf))
	}
	f.value = bytes.Clone(buf[:f.length])
	f.computed = true
	return buf[f.length:]
}

func (f *FixedStringField) RandomValue() interface{} {
	s := randomText(f.length)
	if f.text {
		return s
	}
	return []byte(s)
}

func (f *FixedStringField) Clone() Field {
	c := *f
	c.def = bytes.Clone(f.def)
	c.value = bytes.Clone(f.value)
	return &c
}

func (f *FixedStringField) String() string {
	return fmt.Sprintf("<FixedStringField: name=%s, value=%v, default=%v, length=%d>",
		f.name, f.Value(), f.Default(), f.length)
}

// Sizer 决定变长字段解析时消耗的字节数
// Sizer decides how many bytes a variable field consumes on decode. It may
// look at the packet being decoded and the bytes left.
type Sizer func(p *Packet, buf []byte) (int, error)

// Remaining 消耗剩余的所有字节，设置了最大长度时最多消耗最大长度
// Remaining consumes every byte left, or at most MaxLength bytes when the
// field has one. It is the nil Sizer.
func Remaining() Sizer { return nil }

// SizeFrom 从同一数据包中先前解析的数值字段读取长度
// SizeFrom reads the length from a numeric field (or field part) decoded
// earlier in the same packet.
func SizeFrom(name string) Sizer {
	return func(p *Packet, _ []byte) (int, error) {
		if p == nil {
			return 0, nameErrorf("length field %s needs a packet", name)
		}
		v, err := p.Get(name)
		if err != nil {
			return 0, err
		}
		n, ok := toInteger(v)
		if !ok || n.neg {
			return 0, valueErrorf("length field %s holds %v which is not a length", name, v)
		}
		return int(n.u), nil
	}
}

// SizeFunc 使用自定义函数计算长度
// SizeFunc adapts a custom rule into a Sizer.
func SizeFunc(fn func(p *Packet, buf []byte) int) Sizer {
	return func(p *Packet, buf []byte) (int, error) {
		return fn(p, buf), nil
	}
}

// VariableStringField 表示长度事先未知的字符串字段
// 解析时消耗的字节数由 Sizer 决定
//
// VariableStringField is a string whose length is not statically known. Its
// Sizer decides how many bytes to consume when decoding.
type VariableStringField struct {
	base
	flavor

	sizer     Sizer
	rest      bool
	maxLength int
	order     Order
	def       []byte
	value     []byte
}

// NewVariableStringField 创建变长字符串字段，sizer 为 nil 时消耗剩余所有字节
// NewVariableStringField creates a variable string field. A nil sizer
// consumes the rest of the buffer. WithMaxLength bounds the value length.
func NewVariableStringField(name string, def interface{}, sizer Sizer, opts ...Option) (*VariableStringField, error) {
	if err := validateName("field", name); err != nil {
		return nil, err
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	fl, err := detectFlavor(name, def)
	if err != nil {
		return nil, err
	}
	f := &VariableStringField{
		base:      base{name: name},
		flavor:    fl,
		sizer:     sizer,
		rest:      sizer == nil,
		maxLength: options.MaxLength,
		order:     options.Order,
	}
	b, err := fl.bytesOf(name, "default", def)
	if err != nil {
		return nil, err
	}
	if f.maxLength > 0 && len(b) > f.maxLength {
		return nil, lengthErrorf("%s default must be less or equal than maximum length (%d)", name, f.maxLength)
	}
	f.def, f.value = b, bytes.Clone(b)
	return f, nil
}

// MaxLength 返回最大长度，0 表示不限制
func (f *VariableStringField) MaxLength() int { return f.maxLength }

// Text 报告字段是否为文本风格
func (f *VariableStringField) Text() bool { return f.text }

func (f *VariableStringField) Default() interface{} { return f.export(f.def) }

func (f *VariableStringField) Value() interface{} { return f.export(f.value) }

// SetValue 设置字段值，长度不能超过最大长度
func (f *VariableStringField) SetValue(v interface{}) error {
	b, err := f.bytesOf(f.name, "value", v)
	if err != nil {
		return err
	}
	if f.maxLength > 0 && len(b) > f.maxLength {
		return lengthErrorf("%s value must be less or equal than maximum length (%d) but has length %d",
			f.name, f.maxLength, len(b))
	}
	f.value = b
	return nil
}

// Size 返回当前值的长度
func (f *VariableStringField) Size() int { return len(f.value) }

func (f *VariableStringField) StructFormat() string {
	return fmt.Sprintf("%s%ds", f.order.Prefix(), len(f.value))
}

func (f *VariableStringField) Encode(_ *Packet) []byte {
	return bytes.Clone(f.value)
}

// Decode 按 Sizer 给出的长度解析字段
// 长度无法确定、超过最大长度或字节不足时都视为未完成解析
func (f *VariableStringField) Decode(buf []byte, p *Packet) []byte {
	if f.rest {
		n := len(buf)
		if f.maxLength > 0 {
			n = min(n, f.maxLength)
		}
		f.value = bytes.Clone(buf[:n])
		f.computed = true
		return buf[n:]
	}
	n, err := f.sizer(p, buf)
	if err != nil {
		f.computed = false
		if DebugEnabled() {
			logger.WithField("field", f.name).WithError(err).Debug("cannot compute field length")
		}
		return []byte{}
	}
	if n < 0 || (f.maxLength > 0 && n > f.maxLength) {
		f.computed = false
		if DebugEnabled() {
			logger.WithField("field", f.name).WithField("length", n).Debug("field length is out of bounds")
		}
		return []byte{}
	}
	if len(buf) < n {
		f.computed = false
		return shortBuffer(f, n, len(buf))
	}
	f.value = bytes.Clone(buf[:n])
	f.computed = true
	return buf[n:]
}

// RandomValue 返回随机字符串，长度为最大长度或默认值长度
// RandomValue returns a string of MaxLength characters when set, else of the
// default's length.
func (f *VariableStringField) RandomValue() interface{} {
	length := len(f.def)
	if f.maxLength > 0 {
		length = f.maxLength
	}
	s := randomText(length)
	if f.text {
		return s
	}
	return []byte(s)
}

func (f *VariableStringField) Clone() Field {
	c := *f
	c.def = bytes.Clone(f.def)
	c.value = bytes.Clone(f.value)
	return &c
}

func (f *VariableStringField) String() string {
	return fmt.Sprintf("<VariableStringField: name=%s, value=%v, default=%v, max_length=%d>",
		f.name, f.Value(), f.Default(), f.maxLength)
}
