package protocols

import (
	"github.com/shengyanli1982/fieldkit"
)

// IPv4 协议号
const (
	ProtocolICMP = 1
	ProtocolTCP  = 6
	ProtocolUDP  = 17
)

// IPv4Protocols 上层协议号的枚举
var IPv4Protocols = fieldkit.Enumeration{
	ProtocolICMP: "icmp",
	ProtocolTCP:  "tcp",
	ProtocolUDP:  "udp",
}

// IPv4Flags 分片标志的枚举
var IPv4Flags = fieldkit.Enumeration{
	0: "none",
	1: "mf",
	2: "df",
	4: "evil",
}

// IPv4 是 RFC 791 定义的 IPv4 头部
// ihl 大于 5 时，头部之后紧跟 (ihl-5)*4 字节的选项
//
// IPv4 is the RFC 791 header. When ihl is greater than 5 the header carries
// (ihl-5)*4 bytes of options.
var IPv4 = fieldkit.Must(fieldkit.NewTemplate("IPv4",
	fieldkit.Must(fieldkit.ByteBitsField([]*fieldkit.FieldPart{
		fieldkit.Must(fieldkit.NewFieldPart("version", 4, 4)),
		fieldkit.Must(fieldkit.NewFieldPart("ihl", 5, 4)),
	})),
	fieldkit.Must(fieldkit.ByteField("tos", 0, fieldkit.WithHex())),
	fieldkit.Must(fieldkit.ShortField("total_length", 0)),
	fieldkit.Must(fieldkit.ShortField("identification", 0, fieldkit.WithHex())),
	fieldkit.Must(fieldkit.ShortBitsField([]*fieldkit.FieldPart{
		fieldkit.Must(fieldkit.NewFieldPart("flags", 0, 3, fieldkit.WithEnum(IPv4Flags))),
		fieldkit.Must(fieldkit.NewFieldPart("offset", 0, 13)),
	})),
	fieldkit.Must(fieldkit.ByteField("ttl", 64)),
	fieldkit.Must(fieldkit.ByteField("protocol", ProtocolTCP, fieldkit.WithEnum(IPv4Protocols))),
	fieldkit.Must(fieldkit.ShortField("checksum", 0, fieldkit.WithHex())),
	fieldkit.Must(NewAddressField("src", "127.0.0.1")),
	fieldkit.Must(NewAddressField("dst", "127.0.0.1")),
	fieldkit.Must(fieldkit.NewConditionalField(
		fieldkit.Must(fieldkit.NewVariableStringField("options", []byte{}, fieldkit.SizeFunc(optionsLength),
			fieldkit.WithMaxLength(40))),
		func(p *fieldkit.Packet) bool { return optionsLength(p, nil) > 0 },
	)),
))

// optionsLength 根据 ihl 计算选项长度
func optionsLength(p *fieldkit.Packet, _ []byte) int {
	if p == nil {
		return -1
	}
	ihl, err := p.Uint("ihl")
	if err != nil || ihl < 5 {
		return -1
	}
	return int(ihl-5) * 4
}

// IPv4Bytes 返回头部加负载的字节
// total_length 为 0 时按实际长度填充，checksum 为 0 时按头部计算，p 本身不会被修改
//
// IPv4Bytes returns the header followed by payload. A zero total_length is
// filled with the real length and a zero checksum is computed over the
// header. p is left untouched.
func IPv4Bytes(p *fieldkit.Packet, payload []byte) ([]byte, error) {
	values := fieldkit.Values{}
	if length, err := p.Uint("total_length"); err != nil {
		return nil, err
	} else if length == 0 {
		values["total_length"] = p.Len() + len(payload)
	}
	h, err := p.Evolve(values)
	if err != nil {
		return nil, err
	}

	sum, err := h.Uint("checksum")
	if err != nil {
		return nil, err
	}
	if sum == 0 {
		if err := h.Set("checksum", fieldkit.Checksum(h.Bytes())); err != nil {
			return nil, err
		}
	}
	return append(h.Bytes(), payload...), nil
}
