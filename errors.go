package fieldkit

import (
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// 错误分类，调用方通过 errors.Is 判断错误类型
// Error kinds. Every error returned by this package wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	// ErrRange 数值超出范围
	// ErrRange reports a numeric value outside the bounds of a field, a field
	// part or an enumeration key.
	ErrRange = errors.New("out of range")

	// ErrLength 字符串长度不符合要求
	// ErrLength reports a string whose length does not match the required or
	// maximum length.
	ErrLength = errors.New("invalid length")

	// ErrType 值的类型错误或构造参数不合法
	// ErrType reports a value of the wrong kind or malformed construction
	// arguments.
	ErrType = errors.New("invalid type")

	// ErrName 字段名称未知或重复
	// ErrName reports an unknown or duplicated field name.
	ErrName = errors.New("invalid name")

	// ErrValue 其余的取值错误
	// ErrValue reports any other invalid value.
	ErrValue = errors.New("invalid value")
)

func rangeErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrRange, format, args...)
}

func lengthErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrLength, format, args...)
}

func typeErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrType, format, args...)
}

func nameErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrName, format, args...)
}

func valueErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValue, format, args...)
}

// integer 是任意 Go 整数的归一化表示
// integer is a normalized form of any Go integer, wide enough for the whole
// int64 and uint64 ranges.
type integer struct {
	neg bool
	i   int64
	u   uint64
}

func (n integer) String() string {
	if n.neg {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatUint(n.u, 10)
}

// toInteger 将任意整数类型（包括具名整数类型）转换为 integer
// toInteger accepts every integer type, including named integer types, which
// is how enumerations are written in Go.
func toInteger(v interface{}) (integer, bool) {
	if v == nil {
		return integer{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return integer{neg: true, i: i}, true
		}
		return integer{i: i, u: uint64(i)}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		return integer{i: int64(u), u: u}, true
	default:
		return integer{}, false
	}
}
