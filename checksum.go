package fieldkit

import (
	"encoding/binary"
)

// Checksum 计算 RFC 1071 互联网校验和，奇数长度时末尾补零
// Checksum returns the RFC 1071 Internet checksum of data, as used by IPv4 and
// ICMP. Odd lengths are padded with a zero byte.
func Checksum(data []byte) uint16 {
	var sum uint32
	for len(data) >= 2 {
		sum += uint32(binary.BigEndian.Uint16(data))
		data = data[2:]
	}
	if len(data) == 1 {
		sum += uint32(data[0]) << 8
	}
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return ^uint16(sum)
}
