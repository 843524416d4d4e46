package fieldkit

import (
	"fmt"
	"strings"

	"github.com/shengyanli1982/fieldkit/internal/bitops"
)

// FieldPart 表示位字段中的一个分片
// 每个分片拥有自己的名称、位宽和取值范围 [0, 2^bits-1]
//
// FieldPart is one named sub-byte integer packed inside a BitsField. Its value
// always lies in [0, 2^bits-1].
type FieldPart struct {
	hexCapability
	enumCapability

	name  string
	bits  uint
	def   uint64
	value uint64
}

// NewFieldPart 创建字段分片，bits 取值 1 到 64
// NewFieldPart creates a part of the given bit width. Only WithEnum and
// WithHex are meaningful for parts.
func NewFieldPart(name string, def interface{}, bits int, opts ...Option) (*FieldPart, error) {
	if err := validateName("field part", name); err != nil {
		return nil, err
	}
	if bits < 1 || bits > 64 {
		return nil, valueErrorf("%s size must be between 1 and 64 bits but you provided %d", name, bits)
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	p := &FieldPart{
		hexCapability:  hexCapability{hex: options.Hex},
		enumCapability: enumCapability{enum: options.Enum.clone()},
		name:           name,
		bits:           uint(bits),
	}
	n, ok := toInteger(def)
	if !ok {
		return nil, typeErrorf("%s default must be a positive integer but you provided %v", name, def)
	}
	if n.neg || !bitops.FitsIn(n.u, p.bits) {
		return nil, rangeErrorf("%s default must be between 0 and %d but you provided %s", name, p.Max(), n)
	}
	if err := p.checkKeys(0, p.Max()); err != nil {
		return nil, err
	}
	p.def, p.value = n.u, n.u
	return p, nil
}

// Name 返回分片名称
func (p *FieldPart) Name() string { return p.name }

// Bits 返回分片的位宽
func (p *FieldPart) Bits() int { return int(p.bits) }

// Max 返回分片能表示的最大值
func (p *FieldPart) Max() uint64 { return bitops.MaxValue(p.bits) }

// Default 返回默认值
func (p *FieldPart) Default() uint64 { return p.def }

// Value 返回当前值
func (p *FieldPart) Value() uint64 { return p.value }

// SetValue 设置分片值，超出 [0, 2^bits-1] 返回 ErrRange
func (p *FieldPart) SetValue(v interface{}) error {
	n, ok := toInteger(v)
	if !ok {
		return typeErrorf("%s value must be a positive integer but you provided %v", p.name, v)
	}
	if n.neg || !bitops.FitsIn(n.u, p.bits) {
		return rangeErrorf("%s value must be between 0 and %d but you provided %s", p.name, p.Max(), n)
	}
	p.value = n.u
	return nil
}

// SetByName 通过枚举名称设置分片值
func (p *FieldPart) SetByName(name string) error {
	v, err := p.resolve(p.name, name)
	if err != nil {
		return err
	}
	return p.SetValue(v)
}

// Display 返回考虑十六进制显示后的值
func (p *FieldPart) Display() string { return p.display(p.value) }

// Clone 返回分片的独立副本
func (p *FieldPart) Clone() *FieldPart {
	c := *p
	c.enum = p.enum.clone()
	return &c
}

func (p *FieldPart) String() string {
	return fmt.Sprintf("FieldPart(name=%s, default=%s, value=%s)", p.name, p.display(p.def), p.display(p.value))
}

// bitsFieldName 用于位字段的可读表示
var bitsFieldName = map[Kind]string{
	Uint8:  "ByteBitsField",
	Uint16: "ShortBitsField",
	Uint32: "IntBitsField",
	Uint64: "LongBitsField",
}

// BitsField 将多个字段分片打包进一个 1/2/4/8 字节的整数
// 分片 0 占据最高位，分片位宽之和必须等于存储宽度
//
// BitsField packs an ordered list of parts into one integer of 1, 2, 4 or 8
// bytes. Part 0 holds the most significant bits and the part widths add up to
// exactly the storage width.
type BitsField struct {
	computed bool

	kind  Kind
	order Order
	parts []*FieldPart
}

// NewBitsField 创建位字段，size 为存储宽度（字节）
// NewBitsField creates a bits field stored in size bytes. The parts are
// cloned, the field owns its copies.
func NewBitsField(size int, parts []*FieldPart, opts ...Option) (*BitsField, error) {
	kind, err := KindForSize(size)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, valueErrorf("parts must not be an empty list")
	}
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	f := &BitsField{kind: kind, order: options.Order, parts: make([]*FieldPart, 0, len(parts))}
	total := 0
	for i, part := range parts {
		if part == nil {
			return nil, typeErrorf("part %d must be a FieldPart but you provided nil", i)
		}
		c := part.Clone()
		if options.Hex {
			c.SetHex(true)
		}
		f.parts = append(f.parts, c)
		total += part.Bits()
	}
	if total != kind.Bits() {
		return nil, valueErrorf("the sum in bits of the different FieldPart (%d) is different from the field size (%d)",
			total, kind.Bits())
	}
	return f, nil
}

// ByteBitsField 创建单字节位字段
func ByteBitsField(parts []*FieldPart, opts ...Option) (*BitsField, error) {
	return NewBitsField(1, parts, opts...)
}

// ShortBitsField 创建双字节位字段
func ShortBitsField(parts []*FieldPart, opts ...Option) (*BitsField, error) {
	return NewBitsField(2, parts, opts...)
}

// IntBitsField 创建四字节位字段
func IntBitsField(parts []*FieldPart, opts ...Option) (*BitsField, error) {
	return NewBitsField(4, parts, opts...)
}

// LongBitsField 创建八字节位字段
func LongBitsField(parts []*FieldPart, opts ...Option) (*BitsField, error) {
	return NewBitsField(8, parts, opts...)
}

// Name 返回所有分片名称的组合
// Name joins the part names; parts are addressed individually by a packet.
func (f *BitsField) Name() string {
	names := make([]string, len(f.parts))
	for i, p := range f.parts {
		names[i] = p.name
	}
	return strings.Join(names, "_")
}

// Parts 返回字段的分片，分片由字段独占
func (f *BitsField) Parts() []*FieldPart { return f.parts }

// Kind 返回存储类型
func (f *BitsField) Kind() Kind { return f.kind }

// Computed 报告字段是否已成功解析
func (f *BitsField) Computed() bool { return f.computed }

// compose 将各分片的值拼接为一个整数，分片 0 位于最高位
func (f *BitsField) compose(value func(*FieldPart) uint64) uint64 {
	var store uint64
	offset := uint64(f.kind.Bits())
	for _, p := range f.parts {
		start := offset - uint64(p.bits)
		store = bitops.SetValue(value(p), store, start, offset)
		offset = start
	}
	return store
}

// distribute 将整数按分片位宽从高到低拆分
func (f *BitsField) distribute(store uint64) {
	offset := uint64(f.kind.Bits())
	for _, p := range f.parts {
		start := offset - uint64(p.bits)
		p.value = bitops.GetValue[uint64, uint64](store, bitops.Mask[uint64](start, offset), start)
		offset = start
	}
}

// Default 返回由分片默认值组成的整数
func (f *BitsField) Default() interface{} {
	return f.compose(func(p *FieldPart) uint64 { return p.def })
}

// Value 返回由分片当前值组成的整数
// Value returns the composite integer as a uint64.
func (f *BitsField) Value() interface{} {
	return f.composite()
}

func (f *BitsField) composite() uint64 {
	return f.compose(func(p *FieldPart) uint64 { return p.value })
}

// Tuple 按分片顺序返回各分片的值
func (f *BitsField) Tuple() []uint64 {
	values := make([]uint64, len(f.parts))
	for i, p := range f.parts {
		values[i] = p.value
	}
	return values
}

// SetTuple 按分片顺序设置各分片的值
func (f *BitsField) SetTuple(values ...uint64) error {
	return f.SetValue(values)
}

// SetValue 接受一个整数或一个整数切片
// 整数会按分片位宽从高到低拆分；切片的每一项对应一个分片
//
// SetValue accepts either one non-negative integer, distributed across the
// parts from the most significant bits down, or a slice with one integer per
// part. Nothing changes when validation fails.
func (f *BitsField) SetValue(v interface{}) error {
	if items, ok := tupleItems(v); ok {
		return f.setTuple(items)
	}
	n, ok := toInteger(v)
	if !ok {
		return valueErrorf("value must be an integer or a tuple of integers but you provided %v", v)
	}
	if n.neg || n.u > f.kind.Max() {
		return valueErrorf("integer value must be between 0 and %d but you provided %s", f.kind.Max(), n)
	}
	f.distribute(n.u)
	return nil
}

func (f *BitsField) setTuple(items []interface{}) error {
	if len(items) == 0 {
		return valueErrorf("value must not be an empty tuple")
	}
	if len(items) != len(f.parts) {
		return valueErrorf("tuple length (%d) is different from field parts length (%d)", len(items), len(f.parts))
	}
	values := make([]uint64, len(items))
	for i, item := range items {
		n, ok := toInteger(item)
		if !ok {
			return valueErrorf("all items in tuple must be integers but you provided %v", item)
		}
		part := f.parts[i]
		if n.neg || !bitops.FitsIn(n.u, part.bits) {
			return valueErrorf("item %s must be between 0 and %d according to the field part size but you provided %s",
				part.name, part.Max(), n)
		}
		values[i] = n.u
	}
	for i, part := range f.parts {
		part.value = values[i]
	}
	return nil
}

// tupleItems 将各种整数切片统一为 []interface{}
func tupleItems(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []uint64:
		return toItems(s), true
	case []int:
		return toItems(s), true
	case []int64:
		return toItems(s), true
	case []uint:
		return toItems(s), true
	case []uint32:
		return toItems(s), true
	case []uint16:
		return toItems(s), true
	default:
		return nil, false
	}
}

func toItems[T any](s []T) []interface{} {
	items := make([]interface{}, len(s))
	for i := range s {
		items[i] = s[i]
	}
	return items
}

// Part 按名称查找分片
// Part looks a part up by name with a linear scan.
func (f *BitsField) Part(name string) (*FieldPart, error) {
	for _, p := range f.parts {
		if p.name == name {
			return p, nil
		}
	}
	return nil, nameErrorf("no field part was found with name %s", name)
}

// PartValue 返回指定分片的值
func (f *BitsField) PartValue(name string) (uint64, error) {
	p, err := f.Part(name)
	if err != nil {
		return 0, err
	}
	return p.value, nil
}

// SetPartValue 设置指定分片的值，其他分片保持不变
func (f *BitsField) SetPartValue(name string, v interface{}) error {
	p, err := f.Part(name)
	if err != nil {
		return err
	}
	return p.SetValue(v)
}

func (f *BitsField) Size() int { return f.kind.Size() }

func (f *BitsField) StructFormat() string {
	return f.order.Prefix() + f.kind.Format()
}

func (f *BitsField) Encode(_ *Packet) []byte {
	buf := make([]byte, f.kind.Size())
	writeInteger(buf, f.composite(), f.kind, f.order)
	return buf
}

func (f *BitsField) Decode(buf []byte, _ *Packet) []byte {
	size := f.kind.Size()
	if len(buf) < size {
		f.computed = false
		return shortBuffer(f, size, len(buf))
	}
	f.distribute(readInteger(buf[:size], f.kind, f.order).u)
	f.computed = true
	return buf[size:]
}

// RandomValue 返回 [0, 2^(存储位宽)-1] 内的随机整数
func (f *BitsField) RandomValue() interface{} {
	return randUnsigned(f.kind.Max())
}

// Clone 深拷贝字段及其所有分片
func (f *BitsField) Clone() Field {
	c := *f
	c.parts = make([]*FieldPart, len(f.parts))
	for i, p := range f.parts {
		c.parts[i] = p.Clone()
	}
	return &c
}

// TypeName 返回字段类型的名称
func (f *BitsField) TypeName() string { return bitsFieldName[f.kind] }

func (f *BitsField) String() string {
	parts := make([]string, len(f.parts))
	for i, p := range f.parts {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", f.TypeName(), strings.Join(parts, ", "))
}
