package fieldkit

import (
	"bytes"
	"fmt"
)

const hexdumpWidth = 16

// Hexdump 返回类似 tcpdump / wireshark 的十六进制视图
// 每行 16 字节：偏移、大写十六进制和可打印 ASCII，其余字节显示为 "."
//
// Hexdump renders data like tcpdump or wireshark: 16 bytes per line with the
// offset, upper case hex and a printable ASCII gutter where every byte
// outside 32..126 shows as ".".
func Hexdump(data []byte) string {
	return string(withBuffer(func(buf *bytes.Buffer) {
		for i := 0; i < len(data); i += hexdumpWidth {
			if i > 0 {
				buf.WriteByte('\n')
			}
			fmt.Fprintf(buf, "%04x  ", i)
			end := min(i+hexdumpWidth, len(data))
			for j := i; j < i+hexdumpWidth; j++ {
				if j < end {
					fmt.Fprintf(buf, "%02X ", data[j])
				} else {
					buf.WriteString("   ")
				}
			}
			buf.WriteByte(' ')
			for _, c := range data[i:end] {
				if c < 32 || c >= 127 {
					c = '.'
				}
				buf.WriteByte(c)
			}
		}
	}))
}
