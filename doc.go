// Package fieldkit describes binary network packets declaratively.
// fieldkit 包以声明的方式描述二进制网络数据包。
// 数据包模板由有序的字段列表组成，可以在字节与结构化取值之间相互转换。
//
// Features:
// - 支持 1/2/4/8 字节的有符号和无符号整数字段，以及枚举和十六进制显示
// - 支持定长和变长字符串字段，变长字段的长度可以来自其他字段
// - 支持将多个位宽任意的分片打包进一个整数的位字段
// - 支持根据已解析字段决定是否存在的条件字段
// - 字节不足时不报错，通过 AllFieldsComputed 判断数据包是否完整
//
// Features:
// - Signed and unsigned integer fields of 1, 2, 4 and 8 bytes, with
// enumerations and hex display
// - Fixed and variable length string fields; a variable length may come from
// another field
// - Bits fields packing parts of arbitrary widths into one integer
// - Conditional fields whose presence depends on fields decoded earlier
// - Short buffers are not errors: AllFieldsComputed tells whether a packet is
// complete
//
// A minimal packet type:
//
//	var Fruit = fieldkit.Must(fieldkit.NewTemplate("Fruit",
//		fieldkit.Must(fieldkit.ShortField("apple", 2)),
//		fieldkit.Must(fieldkit.ByteField("banana", 3)),
//	))
//
//	p, _ := Fruit.New(fieldkit.Values{"banana": 5})
//	raw := p.Bytes() // 00 02 05
package fieldkit
