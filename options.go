package fieldkit

import (
	"encoding/binary"
)

// Order 定义了字段的字节序
// Order selects the byte order a field is encoded with.
type Order int

const (
	// Network 网络字节序（大端），默认值
	// Network is network byte order (big endian). It is the default.
	Network Order = iota
	// BigEndian 大端字节序
	BigEndian
	// LittleEndian 小端字节序
	LittleEndian
	// Native 本机字节序
	Native
)

var orderPrefix = map[Order]string{
	Network:      "!",
	BigEndian:    ">",
	LittleEndian: "<",
	Native:       "@",
}

// ParseOrder 解析字节序名称
// ParseOrder accepts "network", "big", "little" and "native".
func ParseOrder(name string) (Order, error) {
	switch name {
	case "", "network", "!":
		return Network, nil
	case "big", ">":
		return BigEndian, nil
	case "little", "<":
		return LittleEndian, nil
	case "native", "@":
		return Native, nil
	default:
		return Network, typeErrorf("invalid byte order %q", name)
	}
}

// Prefix 返回 struct 格式字符串的字节序前缀
// Prefix returns the struct-format prefix of the order.
func (o Order) Prefix() string {
	return orderPrefix[o]
}

func (o Order) String() string {
	switch o {
	case Network:
		return "network"
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	case Native:
		return "native"
	default:
		return "invalid"
	}
}

// ByteOrder 返回 encoding/binary 对应的实现
// ByteOrder returns the encoding/binary implementation of the order.
func (o Order) ByteOrder() binary.ByteOrder {
	switch o {
	case LittleEndian:
		return binary.LittleEndian
	case Native:
		return binary.NativeEndian
	default:
		return binary.BigEndian
	}
}

// Options 定义了字段的构造选项
// 包含字节序、十六进制显示、枚举和最大长度等设置
//
// Options holds the construction settings shared by every field kind.
type Options struct {
	// Order 指定字节序，默认网络字节序
	Order Order

	// Hex 为 true 时以十六进制显示字段值
	Hex bool

	// Enum 值到名称的映射，仅数值字段和字段分片可用
	Enum Enumeration

	// MaxLength 变长字段的最大长度，0 表示不限制
	MaxLength int
}

// Option 修改字段构造选项
// Option tweaks the Options of a field under construction.
type Option func(*Options)

// WithOrder 设置字节序
func WithOrder(order Order) Option {
	return func(o *Options) { o.Order = order }
}

// WithHex 以十六进制显示字段值
func WithHex() Option {
	return func(o *Options) { o.Hex = true }
}

// WithEnum 为数值字段或字段分片附加枚举
func WithEnum(enum Enumeration) Option {
	return func(o *Options) { o.Enum = enum }
}

// WithMaxLength 设置变长字段的最大长度
func WithMaxLength(n int) Option {
	return func(o *Options) { o.MaxLength = n }
}

// Validate 验证选项的有效性
// Validate checks the options are usable.
func (o *Options) Validate() error {
	if _, ok := orderPrefix[o.Order]; !ok {
		return typeErrorf("invalid byte order %d (must be network, big, little or native)", o.Order)
	}
	if o.MaxLength < 0 {
		return valueErrorf("maximum length must be a positive integer but you provided %d", o.MaxLength)
	}
	return nil
}

func buildOptions(opts []Option) (*Options, error) {
	o := &Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}
