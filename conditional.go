package fieldkit

import (
	"fmt"
)

// Predicate 根据正在编码或解析的数据包决定字段是否存在
// Predicate reports whether a conditional field is present on the wire for
// the given packet. During decode it only sees fields decoded before it.
type Predicate func(p *Packet) bool

// ConditionalField 包装另一个字段，仅当谓词成立时才参与编码和解析
// 除编码和解析外，其余方法都委托给被包装的字段
//
// ConditionalField wraps another field that only contributes bytes, and only
// consumes bytes, when its predicate holds. Every other method delegates to
// the wrapped field.
type ConditionalField struct {
	inner     Field
	predicate Predicate
}

// NewConditionalField 创建条件字段
func NewConditionalField(inner Field, predicate Predicate) (*ConditionalField, error) {
	if isNil(inner) {
		return nil, typeErrorf("conditional field must wrap a field but you provided nil")
	}
	if predicate == nil {
		return nil, typeErrorf("predicate of %s must take one parameter (a packet) but you provided nil", inner.Name())
	}
	if _, ok := inner.(*ConditionalField); ok {
		logger.WithField("field", inner.Name()).Debug("nested conditional field")
	}
	return &ConditionalField{inner: inner.Clone(), predicate: predicate}, nil
}

// Inner 返回被包装的字段
func (f *ConditionalField) Inner() Field { return f.inner }

// Active 报告谓词对 p 是否成立
func (f *ConditionalField) Active(p *Packet) bool { return f.predicate(p) }

func (f *ConditionalField) Name() string { return f.inner.Name() }

func (f *ConditionalField) Default() interface{} { return f.inner.Default() }

func (f *ConditionalField) Value() interface{} { return f.inner.Value() }

func (f *ConditionalField) SetValue(v interface{}) error { return f.inner.SetValue(v) }

func (f *ConditionalField) Size() int { return f.inner.Size() }

func (f *ConditionalField) StructFormat() string { return f.inner.StructFormat() }

func (f *ConditionalField) Computed() bool { return f.inner.Computed() }

// Encode 谓词不成立时返回空字节
func (f *ConditionalField) Encode(p *Packet) []byte {
	if !f.predicate(p) {
		return []byte{}
	}
	return f.inner.Encode(p)
}

// Decode 谓词不成立时不消耗任何字节，原样返回 buf
func (f *ConditionalField) Decode(buf []byte, p *Packet) []byte {
	if !f.predicate(p) {
		return buf
	}
	return f.inner.Decode(buf, p)
}

// RandomValue 不考虑谓词，直接委托给被包装的字段
func (f *ConditionalField) RandomValue() interface{} { return f.inner.RandomValue() }

// Clone 深拷贝被包装的字段，谓词是无状态函数可以共享
func (f *ConditionalField) Clone() Field {
	return &ConditionalField{inner: f.inner.Clone(), predicate: f.predicate}
}

func (f *ConditionalField) String() string {
	return fmt.Sprintf("ConditionalField(%s)", f.inner.String())
}
