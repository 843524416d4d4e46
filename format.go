package fieldkit

import (
	"strings"
)

// orderPrefixes 是 struct 格式字符串中可能出现的字节序前缀
const orderPrefixes = "!<>@="

// splitFormat 将字段格式拆分为字节序前缀和格式字符
func splitFormat(format string) (string, string) {
	if format != "" && strings.ContainsRune(orderPrefixes, rune(format[0])) {
		return format[:1], format[1:]
	}
	return "", format
}

// FormatString 返回数据包的 struct 格式字符串，用于描述二进制数据的布局。
// 格式类似于 Python 的 struct 模块，例如 "!BHH4s"。
// 所有字段字节序相同时只输出一次前缀，否则每个字段保留自己的前缀。
// 谓词不成立的条件字段不出现在格式中。
//
// FormatString returns a format string that describes the binary layout of
// the packet, similar to Python's struct module, e.g. "!BHH4s". The order
// prefix is written once when every field shares it. Conditional fields
// whose predicate is false are left out.
func (p *Packet) FormatString() string {
	fields := p.active()
	formats := make([]string, len(fields))
	for i, f := range fields {
		formats[i] = f.StructFormat()
	}
	return buildFormatString(formats)
}

// buildFormatString 构建格式字符串。
// 首先确定字节序，然后生成所有字段的格式。
//
// buildFormatString builds the format string.
// First determines the endianness, then generates the format for all fields.
func buildFormatString(formats []string) string {
	var format strings.Builder

	endianness, shared := determineEndianness(formats)
	if !shared {
		for _, f := range formats {
			format.WriteString(f)
		}
		return format.String()
	}

	format.WriteString(endianness)
	for _, f := range formats {
		_, body := splitFormat(f)
		format.WriteString(body)
	}
	return format.String()
}

// determineEndianness 确定整个数据包的字节序。
// 只有所有带前缀的字段字节序一致时才返回共享的前缀。
//
// determineEndianness determines the endianness for the entire packet. It
// only reports a shared prefix when every prefixed field agrees.
func determineEndianness(formats []string) (string, bool) {
	endianness := ""
	for _, f := range formats {
		prefix, _ := splitFormat(f)
		if prefix == "" {
			continue
		}
		if endianness != "" && endianness != prefix {
			return "", false
		}
		endianness = prefix
	}
	if endianness == "" {
		endianness = Network.Prefix()
	}
	return endianness, true
}
