package fieldkit

import (
	"fmt"
	"sort"
)

// Enumeration 将整数值映射为可读名称
// 只影响设置和显示，不影响编码格式
//
// Enumeration maps integer values to human readable names. It only affects
// setting by name and display, never the wire format.
type Enumeration map[int64]string

// keys 返回有序的键，保证按名称查找的结果稳定
func (e Enumeration) keys() []int64 {
	keys := make([]int64, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Lookup 返回名称对应的值
// Lookup returns the smallest value represented by name.
func (e Enumeration) Lookup(name string) (int64, bool) {
	for _, k := range e.keys() {
		if e[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Label 返回值对应的名称
func (e Enumeration) Label(v int64) (string, bool) {
	name, ok := e[v]
	return name, ok
}

// clone 复制枚举，避免实例之间共享 map
func (e Enumeration) clone() Enumeration {
	if e == nil {
		return nil
	}
	c := make(Enumeration, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// enumCapability 为字段附加枚举能力
// enumCapability is the enum-annotated capability composed into numeric
// fields and field parts.
type enumCapability struct {
	enum Enumeration
}

// Enumeration 返回字段附加的枚举，可能为 nil
func (c *enumCapability) Enumeration() Enumeration {
	return c.enum
}

// checkKeys 校验枚举的所有键都在 [min, max] 范围内
func (c *enumCapability) checkKeys(min int64, max uint64) error {
	for k := range c.enum {
		if k < min || (k >= 0 && uint64(k) > max) {
			return typeErrorf("all keys in enumeration must be between %d and %d but you provided %d", min, max, k)
		}
	}
	return nil
}

// resolve 将名称解析为值
func (c *enumCapability) resolve(field, name string) (int64, error) {
	if v, ok := c.enum.Lookup(name); ok {
		return v, nil
	}
	return 0, valueErrorf("%s has no value represented by %s", field, name)
}

// hexCapability 为字段附加十六进制显示能力
// hexCapability is the displayable-as-hex capability.
type hexCapability struct {
	hex bool
}

// Hex 报告字段是否以十六进制显示
func (c *hexCapability) Hex() bool { return c.hex }

// SetHex 切换十六进制显示
func (c *hexCapability) SetHex(hex bool) { c.hex = hex }

func (c *hexCapability) display(v interface{}) string {
	if c.hex {
		switch n := v.(type) {
		case int64:
			if n < 0 {
				return fmt.Sprintf("-%#x", uint64(-n))
			}
			return fmt.Sprintf("%#x", n)
		case uint64:
			return fmt.Sprintf("%#x", n)
		}
	}
	return fmt.Sprint(v)
}
