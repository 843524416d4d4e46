package fieldkit

import (
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// Field 定义了所有字段必须具备的能力
// 字段既是数据包模板的一部分，也是数据包实例中独占的可变状态
//
// Field is the capability set every field of a packet implements. A field
// value attached to a Template is read-only; each Packet owns clones.
type Field interface {
	// Name 返回字段名称
	Name() string

	// Default 返回字段的默认值
	Default() interface{}

	// Value 返回字段的当前值
	Value() interface{}

	// SetValue 校验并设置字段值，失败时字段保持原值
	// SetValue validates and stores v. On error the previous value is kept.
	SetValue(v interface{}) error

	// Size 返回当前值编码后的字节数
	Size() int

	// StructFormat 返回 struct 模块风格的格式描述
	StructFormat() string

	// Encode 返回字段在网络上传输的字节，p 为所属的数据包，可能为 nil
	// Encode returns the wire bytes of the field. p is the enclosing packet
	// and may be nil for standalone fields.
	Encode(p *Packet) []byte

	// Decode 从 buf 中解析字段值并返回剩余的字节
	// 字节不足时返回空切片且 Computed 保持 false，不返回错误
	//
	// Decode computes the field value from buf and returns the bytes left to
	// parse. When buf is too short it returns an empty remainder and leaves
	// Computed false; this is not an error.
	Decode(buf []byte, p *Packet) []byte

	// Computed 报告字段是否已从字节中成功解析
	Computed() bool

	// RandomValue 返回一个合法的随机值
	RandomValue() interface{}

	// Clone 返回字段的深拷贝
	Clone() Field

	// String 返回字段的可读表示
	String() string
}

// Enumerated 由附加了枚举的字段和字段分片实现
// Enumerated is implemented by fields and field parts that can carry an
// enumeration.
type Enumerated interface {
	Enumeration() Enumeration
	SetByName(name string) error
}

// base 保存所有字段共有的名称和解析状态
type base struct {
	name     string
	computed bool
}

func (b *base) Name() string { return b.name }

func (b *base) Computed() bool { return b.computed }

// ValidateName 校验自定义字段的名称，规则与内置字段相同
// ValidateName applies the naming rules of the built-in fields, for custom
// Field implementations.
func ValidateName(name string) error {
	return validateName("field", name)
}

// validateName 校验字段名称
// 名称必须以字母开头、以字母或数字结尾，且只包含字母、数字和下划线
//
// validateName checks name starts with a letter, ends with a letter or a
// digit and only contains letters, digits and underscores.
func validateName(kind, name string) error {
	message := "%s name must start with a letter and only contain letters, digits and underscores but you provided %q"
	if name == "" {
		return valueErrorf(message, kind, name)
	}
	runes := []rune(name)
	last := runes[len(runes)-1]
	if !unicode.IsLetter(runes[0]) || !(unicode.IsLetter(last) || unicode.IsDigit(last)) {
		return valueErrorf(message, kind, name)
	}
	if strings.IndexFunc(name, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	}) >= 0 {
		return valueErrorf(message, kind, name)
	}
	return nil
}

// Must 在构造出错时 panic，用于静态定义的数据包模板
// Must panics if err is non-nil. It is meant for package level templates
// whose layout is known to be valid.
func Must[F any](f F, err error) F {
	if err != nil {
		panic(err)
	}
	return f
}

// shortBuffer 记录字节不足的情况并返回空的剩余字节
func shortBuffer(f Field, need, have int) []byte {
	if DebugEnabled() {
		logger.WithFields(logrus.Fields{
			"field": f.Name(),
			"need":  need,
			"have":  have,
		}).Debug("not enough bytes to compute field")
	}
	return []byte{}
}
