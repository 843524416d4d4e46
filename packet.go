package fieldkit

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Values 按名称描述一批字段或字段分片的取值
// Values maps field (or field part) names to the values to assign.
type Values map[string]interface{}

// Template 是数据包类型：一份只读的有序字段列表
// 模板可以被多个协程同时用来创建数据包实例
//
// Template is a packet type: a read-only ordered list of fields. Instances are
// built from deep clones, so a template is safe for concurrent use.
type Template struct {
	name   string
	fields []Field
}

// NewTemplate 创建数据包模板
// 字段与字段分片的名称在整个模板内必须唯一
//
// NewTemplate creates a packet type. Names of fields and field parts must be
// unique across the whole template.
func NewTemplate(name string, fields ...Field) (*Template, error) {
	if err := validateName("packet", name); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, valueErrorf("%s fields must not be an empty list", name)
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	t := &Template{name: name, fields: make([]Field, 0, len(fields))}
	for i, f := range fields {
		if isNil(f) {
			return nil, typeErrorf("%s field %d must be a Field but you provided nil", name, i)
		}
		for _, n := range fieldNames(f) {
			if !seen.Add(n) {
				return nil, nameErrorf("you already have a field with name %s", n)
			}
		}
		t.fields = append(t.fields, f.Clone())
	}
	return t, nil
}

func isNil(f Field) bool {
	if f == nil {
		return true
	}
	rv := reflect.ValueOf(f)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// fieldNames 返回字段对外暴露的名称，位字段展开为各分片名称
func fieldNames(f Field) []string {
	if bits, ok := asBits(f); ok {
		names := make([]string, len(bits.parts))
		for i, p := range bits.parts {
			names[i] = p.name
		}
		return names
	}
	return []string{f.Name()}
}

// asBits 返回 f 或其包装的位字段
func asBits(f Field) (*BitsField, bool) {
	switch v := f.(type) {
	case *BitsField:
		return v, true
	case *ConditionalField:
		return asBits(v.inner)
	default:
		return nil, false
	}
}

// Name 返回模板名称
func (t *Template) Name() string { return t.name }

// Fields 返回模板字段的副本
// Fields returns clones of the template fields; the template itself is never
// handed out.
func (t *Template) Fields() []Field {
	fields := make([]Field, len(t.fields))
	for i, f := range t.fields {
		fields[i] = f.Clone()
	}
	return fields
}

// instance 克隆模板字段并建立名称索引
func (t *Template) instance() *Packet {
	p := &Packet{template: t, fields: make([]Field, len(t.fields))}
	for i, f := range t.fields {
		p.fields[i] = f.Clone()
	}
	p.reindex()
	return p
}

// New 基于模板创建数据包，并应用 values 中的取值
// New creates a packet with default values, then applies values.
func (t *Template) New(values Values) (*Packet, error) {
	p := t.instance()
	if err := p.apply(values); err != nil {
		return nil, err
	}
	return p, nil
}

// FromBytes 从字节中解析数据包
// 解析按字段顺序进行，每个字段都能看到之前已解析的字段。字节不足不是错误，
// 可以通过 AllFieldsComputed 判断数据包是否完整，多余的字节会被忽略
//
// FromBytes decodes a packet. Fields are decoded in order and each one sees
// the fields decoded before it. A short buffer is not an error: check
// AllFieldsComputed. Trailing bytes are ignored.
func (t *Template) FromBytes(data []byte) *Packet {
	p, rest := t.DecodePrefix(data, nil)
	if len(rest) > 0 && DebugEnabled() {
		logger.WithField("packet", t.name).WithField("trailing", len(rest)).Debug("bytes left after decoding")
	}
	return p
}

// DecodePrefix 解析 data 开头的数据包并返回剩余字节
// prepare 不为 nil 时，在每个字段解析之前以数据包自己的字段调用，
// 用于给需要上下文的自定义字段（例如压缩的域名）提供额外信息
//
// DecodePrefix decodes a packet from the start of data and returns the bytes
// left. When prepare is non-nil it is called with each field the packet owns
// right before that field is decoded, so custom fields can be handed context
// the packet does not carry.
func (t *Template) DecodePrefix(data []byte, prepare func(f Field, p *Packet)) (*Packet, []byte) {
	p := t.instance()
	buf := data
	for _, f := range p.fields {
		if prepare != nil {
			prepare(f, p)
		}
		buf = f.Decode(buf, p)
	}
	return p, buf
}

// Random 创建所有字段都取随机值的数据包，条件字段不考虑谓词
// Random creates a packet whose fields all hold random values. Conditional
// fields are filled regardless of their predicate.
func (t *Template) Random() (*Packet, error) {
	p := t.instance()
	for _, f := range p.fields {
		if err := f.SetValue(f.RandomValue()); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Packet 是模板的一个实例，独占自己的字段副本
// Packet is an instance of a Template. It owns its field clones; two packets
// never share mutable state.
type Packet struct {
	template *Template
	fields   []Field
	index    map[string]Field
	parts    map[string]*BitsField
}

func (p *Packet) reindex() {
	p.index = make(map[string]Field, len(p.fields))
	p.parts = make(map[string]*BitsField)
	for _, f := range p.fields {
		if bits, ok := asBits(f); ok {
			for _, part := range bits.parts {
				p.parts[part.name] = bits
			}
			continue
		}
		p.index[f.Name()] = f
	}
}

// Template 返回数据包的模板
func (p *Packet) Template() *Template { return p.template }

// Name 返回数据包类型名称
func (p *Packet) Name() string { return p.template.name }

// Fields 返回数据包字段的副本，修改副本不会影响数据包
// Fields returns clones of the packet's fields in declared order. Changing a
// clone leaves the packet untouched; use Set for that.
func (p *Packet) Fields() []Field {
	fields := make([]Field, len(p.fields))
	for i, f := range p.fields {
		fields[i] = f.Clone()
	}
	return fields
}

// Field 按名称返回顶层字段的副本
func (p *Packet) Field(name string) (Field, bool) {
	f, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return f.Clone(), true
}

func (p *Packet) unknown(name string) error {
	return nameErrorf("there is no attribute with name %s in %s", name, p.template.name)
}

// Get 返回字段或字段分片的值
// Get returns the value of a field, or of a field part when name designates
// one.
func (p *Packet) Get(name string) (interface{}, error) {
	if f, ok := p.index[name]; ok {
		return f.Value(), nil
	}
	if bits, ok := p.parts[name]; ok {
		return bits.PartValue(name)
	}
	return nil, p.unknown(name)
}

// Uint 以 uint64 返回整数字段的值
func (p *Packet) Uint(name string) (uint64, error) {
	v, err := p.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := toInteger(v)
	if !ok {
		return 0, typeErrorf("%s is not an integer field", name)
	}
	if n.neg {
		return 0, rangeErrorf("%s holds %s which is negative", name, n)
	}
	return n.u, nil
}

// Int 以 int64 返回整数字段的值
func (p *Packet) Int(name string) (int64, error) {
	v, err := p.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := toInteger(v)
	if !ok {
		return 0, typeErrorf("%s is not an integer field", name)
	}
	if !n.neg && n.u > math.MaxInt64 {
		return 0, rangeErrorf("%s holds %s which overflows int64", name, n)
	}
	return n.i, nil
}

// Text 以字符串返回字符串字段的值
func (p *Packet) Text(name string) (string, error) {
	v, err := p.Get(name)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", typeErrorf("%s is not a string field", name)
	}
}

// Set 设置字段或字段分片的值
// 名称指向位字段分片时只修改该分片；目标带有枚举时，字符串按枚举名称解析
//
// Set assigns a field, or a single field part. When the target carries an
// enumeration a string value is resolved by name.
func (p *Packet) Set(name string, v interface{}) error {
	if f, ok := p.index[name]; ok {
		target := f
		if c, ok := f.(*ConditionalField); ok {
			target = c.inner
		}
		if e, ok := target.(Enumerated); ok {
			return setEnumerated(e, target.SetValue, v)
		}
		return f.SetValue(v)
	}
	if bits, ok := p.parts[name]; ok {
		part, err := bits.Part(name)
		if err != nil {
			return err
		}
		if s, ok := v.(string); ok {
			return part.SetByName(s)
		}
		return part.SetValue(v)
	}
	return p.unknown(name)
}

func setEnumerated(e Enumerated, set func(interface{}) error, v interface{}) error {
	if s, ok := v.(string); ok && e.Enumeration() != nil {
		return e.SetByName(s)
	}
	return set(v)
}

func (p *Packet) apply(values Values) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Clone 返回数据包的深拷贝
func (p *Packet) Clone() *Packet {
	c := &Packet{template: p.template, fields: make([]Field, len(p.fields))}
	for i, f := range p.fields {
		c.fields[i] = f.Clone()
	}
	c.reindex()
	return c
}

// Evolve 返回应用了 values 的副本，任何一项失败时不返回部分更新的副本
// Evolve returns a clone with values applied. On error the clone is discarded
// and p is left untouched.
func (p *Packet) Evolve(values Values) (*Packet, error) {
	c := p.Clone()
	if err := c.apply(values); err != nil {
		return nil, err
	}
	return c, nil
}

// Bytes 返回数据包在网络上传输的字节
func (p *Packet) Bytes() []byte {
	return withBuffer(func(buf *bytes.Buffer) {
		for _, f := range p.fields {
			buf.Write(f.Encode(p))
		}
	})
}

// Len 返回编码后的字节数
func (p *Packet) Len() int {
	n := 0
	for _, f := range p.fields {
		if c, ok := f.(*ConditionalField); ok && !c.Active(p) {
			continue
		}
		n += f.Size()
	}
	return n
}

// AllFieldsComputed 报告解析是否完整，谓词不成立的条件字段视为已完成
// AllFieldsComputed reports whether every field was decoded. A conditional
// field whose predicate is false counts as decoded.
func (p *Packet) AllFieldsComputed() bool {
	for _, f := range p.fields {
		if c, ok := f.(*ConditionalField); ok && !c.Active(p) {
			continue
		}
		if !f.Computed() {
			return false
		}
	}
	return true
}

// Hexdump 返回类似 tcpdump 的十六进制视图
func (p *Packet) Hexdump() string { return Hexdump(p.Bytes()) }

// Equal 当两个数据包的编码字节相同时返回 true
// Equal reports whether both packets encode to the same bytes.
func (p *Packet) Equal(other *Packet) bool {
	if p == nil || other == nil {
		return p == other
	}
	return bytes.Equal(p.Bytes(), other.Bytes())
}

// active 返回当前在线路上出现的字段
func (p *Packet) active() []Field {
	fields := make([]Field, 0, len(p.fields))
	for _, f := range p.fields {
		if c, ok := f.(*ConditionalField); ok && !c.Active(p) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// String 返回 "<Name: a=1, b=2>" 形式的表示，跳过不出现在线路上的条件字段
func (p *Packet) String() string {
	var pairs []string
	for _, f := range p.active() {
		if bits, ok := asBits(f); ok {
			for _, part := range bits.parts {
				pairs = append(pairs, part.name+"="+part.Display())
			}
			continue
		}
		pairs = append(pairs, f.Name()+"="+displayValue(f, f.Value()))
	}
	return fmt.Sprintf("<%s: %s>", p.template.name, strings.Join(pairs, ", "))
}

// Show 逐行写出每个字段的名称、类型、当前值和默认值
// Show writes one line per field (and per field part) with its type, current
// value and default value.
func (p *Packet) Show(w io.Writer) error {
	type line struct{ name, kind, value, def string }
	var lines []line
	width := 0
	for _, f := range p.active() {
		if bits, ok := asBits(f); ok {
			kind := "FieldPart of " + typeName(bits)
			for _, part := range bits.parts {
				lines = append(lines, line{part.name, kind, part.Display(), part.display(part.def)})
			}
		} else {
			lines = append(lines, line{f.Name(), typeName(f), displayValue(f, f.Value()), displayValue(f, f.Default())})
		}
	}
	for _, f := range p.fields {
		for _, n := range fieldNames(f) {
			width = max(width, len(n))
		}
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-*s : %s = %s (%s)\n", width, l.name, l.kind, l.value, l.def); err != nil {
			return err
		}
	}
	return nil
}

// typeName 返回字段类型的名称，字段可以通过 TypeName 方法自定义
func typeName(f Field) string {
	if c, ok := f.(*ConditionalField); ok {
		f = c.inner
	}
	if n, ok := f.(interface{ TypeName() string }); ok {
		return n.TypeName()
	}
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// displayValue 按字段的显示能力格式化值
func displayValue(f Field, v interface{}) string {
	if c, ok := f.(*ConditionalField); ok {
		f = c.inner
	}
	if h, ok := f.(interface{ display(interface{}) string }); ok {
		return h.display(v)
	}
	switch s := v.(type) {
	case string:
		return strconv.Quote(s)
	case []byte:
		return fmt.Sprintf("%q", s)
	default:
		return fmt.Sprint(v)
	}
}
