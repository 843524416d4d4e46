// Package schema 从 TOML 文件加载数据包布局并构建 fieldkit 模板
//
// Package schema loads declarative packet layouts from TOML and builds
// fieldkit templates out of them. A layout looks like:
//
//	name = "Fruit"
//
//	[[fields]]
//	name = "apples"
//	kind = "uint8"
//	default = 1
//
//	[[fields]]
//	name = "pie"
//	kind = "uint16"
//	when = "apples > 2"
package schema

import (
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
	"github.com/sirupsen/logrus"
)

// 字段类型名称，数值类型使用 fieldkit.ParseKind 接受的名称
const (
	KindString    = "string"
	KindVarString = "varstring"
	KindBits      = "bits"
	KindFloat16   = "float16"
)

// Layout 是一个数据包布局
type Layout struct {
	Name   string      `toml:"name"`
	Fields []FieldSpec `toml:"fields"`
}

// FieldSpec 描述一个字段，未用到的属性保持零值
// FieldSpec describes one field. Attributes a kind does not use stay zero.
type FieldSpec struct {
	Name      string            `toml:"name"`
	Kind      string            `toml:"kind"`
	Default   interface{}       `toml:"default"`
	Order     string            `toml:"order"`
	Hex       bool              `toml:"hex"`
	Enum      map[string]string `toml:"enum"`
	Binary    bool              `toml:"binary"`
	Length    int               `toml:"length"`
	MaxLength int               `toml:"max_length"`
	SizeFrom  string            `toml:"size_from"`
	Size      int               `toml:"size"`
	Parts     []PartSpec        `toml:"parts"`
	When      string            `toml:"when"`
}

// PartSpec 描述位字段中的一个分片
type PartSpec struct {
	Name    string            `toml:"name"`
	Bits    int               `toml:"bits"`
	Default int64             `toml:"default"`
	Enum    map[string]string `toml:"enum"`
}

// Parse 解析 TOML 格式的布局
func Parse(data []byte) (*Layout, error) {
	l := &Layout{}
	if err := toml.Unmarshal(data, l); err != nil {
		return nil, errors.Wrap(err, "cannot parse packet layout")
	}
	return l, nil
}

// Load 从 r 中读取布局
func Load(r io.Reader) (*Layout, error) {
	l := &Layout{}
	if err := toml.NewDecoder(r).Decode(l); err != nil {
		return nil, errors.Wrap(err, "cannot decode packet layout")
	}
	return l, nil
}

// LoadFile 从文件中读取布局
func LoadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open packet layout %s", path)
	}
	defer f.Close()
	return Load(f)
}

// Template 根据布局构建数据包模板
// 条件表达式只能引用在它之前声明的字段
//
// Template builds the packet type. A when condition may only refer to a field
// declared before it.
func (l *Layout) Template() (*fieldkit.Template, error) {
	var (
		fields []fieldkit.Field
		known  []string
	)
	for i := range l.Fields {
		spec := &l.Fields[i]
		f, err := spec.field()
		if err != nil {
			return nil, errors.Wrapf(err, "%s field %d", l.Name, i)
		}
		if spec.When != "" {
			predicate, err := parseCondition(spec.When, known)
			if err != nil {
				return nil, errors.Wrapf(err, "%s field %s", l.Name, f.Name())
			}
			if f, err = fieldkit.NewConditionalField(f, predicate); err != nil {
				return nil, err
			}
		}
		fields = append(fields, f)
		known = append(known, spec.names()...)
	}

	t, err := fieldkit.NewTemplate(l.Name, fields...)
	if err != nil {
		return nil, err
	}
	fieldkit.Logger().WithFields(logrus.Fields{"packet": l.Name, "fields": len(fields)}).Debug("packet layout loaded")
	return t, nil
}

func (s *FieldSpec) names() []string {
	if s.Kind != KindBits {
		return []string{s.Name}
	}
	names := make([]string, len(s.Parts))
	for i, p := range s.Parts {
		names[i] = p.Name
	}
	return names
}

func (s *FieldSpec) options() ([]fieldkit.Option, error) {
	order, err := fieldkit.ParseOrder(s.Order)
	if err != nil {
		return nil, err
	}
	opts := []fieldkit.Option{fieldkit.WithOrder(order)}
	if s.Hex {
		opts = append(opts, fieldkit.WithHex())
	}
	if s.MaxLength != 0 {
		opts = append(opts, fieldkit.WithMaxLength(s.MaxLength))
	}
	if s.Enum != nil {
		enum, err := enumeration(s.Enum)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fieldkit.WithEnum(enum))
	}
	return opts, nil
}

// field 按类型构建字段
func (s *FieldSpec) field() (fieldkit.Field, error) {
	opts, err := s.options()
	if err != nil {
		return nil, err
	}

	switch s.Kind {
	case KindString:
		def := s.Default
		if def == nil {
			def = strings.Repeat("\x00", s.Length)
		}
		return fieldkit.NewFixedStringField(s.Name, s.flavored(def), s.Length, opts...)

	case KindVarString:
		def := s.Default
		if def == nil {
			def = ""
		}
		var sizer fieldkit.Sizer
		if s.SizeFrom != "" {
			sizer = fieldkit.SizeFrom(s.SizeFrom)
		}
		return fieldkit.NewVariableStringField(s.Name, s.flavored(def), sizer, opts...)

	case KindBits:
		parts := make([]*fieldkit.FieldPart, len(s.Parts))
		for i, p := range s.Parts {
			var partOpts []fieldkit.Option
			if p.Enum != nil {
				enum, err := enumeration(p.Enum)
				if err != nil {
					return nil, err
				}
				partOpts = append(partOpts, fieldkit.WithEnum(enum))
			}
			if parts[i], err = fieldkit.NewFieldPart(p.Name, p.Default, p.Bits, partOpts...); err != nil {
				return nil, err
			}
		}
		return fieldkit.NewBitsField(s.Size, parts, opts...)

	case KindFloat16:
		def := s.Default
		if def == nil {
			def = 0.0
		}
		return fieldkit.NewFloat16Field(s.Name, def, opts...)

	default:
		kind, err := fieldkit.ParseKind(s.Kind)
		if err != nil {
			return nil, err
		}
		def := s.Default
		if def == nil {
			def = 0
		}
		// 枚举字段的默认值可以写成名称
		if name, ok := def.(string); ok && s.Enum != nil {
			enum, _ := enumeration(s.Enum)
			v, found := enum.Lookup(name)
			if !found {
				return nil, errors.Wrapf(fieldkit.ErrValue, "%s has no value represented by %s", s.Name, name)
			}
			def = v
		}
		return fieldkit.NewNumericField(s.Name, kind, def, opts...)
	}
}

// flavored 将二进制字段的字符串默认值转换为字节
func (s *FieldSpec) flavored(def interface{}) interface{} {
	if str, ok := def.(string); ok && s.Binary {
		return []byte(str)
	}
	return def
}

func enumeration(m map[string]string) (fieldkit.Enumeration, error) {
	enum := make(fieldkit.Enumeration, len(m))
	for key, name := range m {
		v, err := strconv.ParseInt(key, 0, 64)
		if err != nil {
			return nil, errors.Wrapf(fieldkit.ErrValue, "enumeration key %q is not an integer", key)
		}
		enum[v] = name
	}
	return enum, nil
}

var comparators = map[string]func(a, b int64) bool{
	"==": func(a, b int64) bool { return a == b },
	"!=": func(a, b int64) bool { return a != b },
	"<":  func(a, b int64) bool { return a < b },
	"<=": func(a, b int64) bool { return a <= b },
	">":  func(a, b int64) bool { return a > b },
	">=": func(a, b int64) bool { return a >= b },
}

// parseCondition 解析 "<字段> <操作符> <整数>" 形式的条件
// parseCondition parses "<field> <op> <int>" where op is one of == != < <=
// > >=, or "<field> in <int>,<int>,...".
func parseCondition(expr string, known []string) (fieldkit.Predicate, error) {
	tokens := strings.Fields(expr)
	if len(tokens) != 3 {
		return nil, errors.Wrapf(fieldkit.ErrValue, "condition %q must look like \"<field> <op> <int>\"", expr)
	}
	name, op, operand := tokens[0], tokens[1], tokens[2]
	if !slices.Contains(known, name) {
		return nil, errors.Wrapf(fieldkit.ErrName, "condition %q refers to %s which is not declared before", expr, name)
	}

	var values []int64
	for _, item := range strings.Split(operand, ",") {
		v, err := strconv.ParseInt(item, 0, 64)
		if err != nil {
			return nil, errors.Wrapf(fieldkit.ErrValue, "condition %q compares with %q which is not an integer", expr, item)
		}
		values = append(values, v)
	}

	if op == "in" {
		return func(p *fieldkit.Packet) bool {
			v, err := p.Int(name)
			return err == nil && slices.Contains(values, v)
		}, nil
	}
	compare, ok := comparators[op]
	if !ok || len(values) != 1 {
		return nil, errors.Wrapf(fieldkit.ErrValue, "condition %q has an invalid operator %s", expr, op)
	}
	return func(p *fieldkit.Packet) bool {
		v, err := p.Int(name)
		return err == nil && compare(v, values[0])
	}, nil
}
