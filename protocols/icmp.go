package protocols

import (
	"slices"

	"github.com/shengyanli1982/fieldkit"
)

// ICMPTypes 常见 ICMP 类型的枚举
var ICMPTypes = fieldkit.Enumeration{
	0:  "echo-reply",
	3:  "destination-unreachable",
	5:  "redirect",
	8:  "echo-request",
	11: "time-exceeded",
	12: "parameter-problem",
	13: "timestamp",
	14: "timestamp-reply",
	17: "address-mask-request",
	18: "address-mask-reply",
}

// icmpType 返回一个判断 ICMP 类型是否属于 types 的谓词
func icmpType(types ...uint64) fieldkit.Predicate {
	return func(p *fieldkit.Packet) bool {
		t, err := p.Uint("type")
		return err == nil && slices.Contains(types, t)
	}
}

func notICMPType(types ...uint64) fieldkit.Predicate {
	in := icmpType(types...)
	return func(p *fieldkit.Packet) bool { return !in(p) }
}

func when(f fieldkit.Field, predicate fieldkit.Predicate) *fieldkit.ConditionalField {
	return fieldkit.Must(fieldkit.NewConditionalField(f, predicate))
}

// ICMP 是 RFC 792 定义的 ICMPv4 消息头，类型之后的字段随类型变化
// ICMP is the RFC 792 ICMPv4 message header. The fields following the
// checksum depend on the message type.
var ICMP = fieldkit.Must(fieldkit.NewTemplate("ICMP",
	fieldkit.Must(fieldkit.ByteField("type", 8, fieldkit.WithEnum(ICMPTypes))),
	fieldkit.Must(fieldkit.ByteField("code", 0)),
	fieldkit.Must(fieldkit.ShortField("checksum", 0, fieldkit.WithHex())),
	when(fieldkit.Must(fieldkit.ShortField("id", 0)), icmpType(0, 8, 13, 14, 15, 16, 17, 18)),
	when(fieldkit.Must(fieldkit.ShortField("sequence", 0)), icmpType(0, 8, 13, 14, 15, 16, 17, 18)),
	when(fieldkit.Must(fieldkit.IntField("original_timestamp", 0)), icmpType(13, 14)),
	when(fieldkit.Must(fieldkit.IntField("receive_timestamp", 0)), icmpType(13, 14)),
	when(fieldkit.Must(fieldkit.IntField("transmit_timestamp", 0)), icmpType(13, 14)),
	when(fieldkit.Must(NewAddressField("gateway", "0.0.0.0")), icmpType(5)),
	when(fieldkit.Must(fieldkit.ByteField("ptr", 0)), icmpType(12)),
	when(fieldkit.Must(fieldkit.ByteField("reserved", 0)), icmpType(3, 11)),
	when(fieldkit.Must(fieldkit.ByteField("length", 0)), icmpType(3, 11, 12)),
	when(fieldkit.Must(NewAddressField("address_mask", "0.0.0.0")), icmpType(17, 18)),
	when(fieldkit.Must(fieldkit.ShortField("next_hop_mtu", 0)), icmpType(3)),
	when(fieldkit.Must(fieldkit.IntField("unused", 0)), notICMPType(0, 3, 5, 8, 11, 12, 13, 14, 15, 16, 17, 18)),
))

// ICMPBytes 返回消息头加负载的字节，checksum 为 0 时覆盖整个消息计算
// ICMPBytes returns the header followed by payload. A zero checksum is
// computed over the whole message. p is left untouched.
func ICMPBytes(p *fieldkit.Packet, payload []byte) ([]byte, error) {
	sum, err := p.Uint("checksum")
	if err != nil {
		return nil, err
	}
	if sum != 0 {
		return append(p.Bytes(), payload...), nil
	}
	message := append(p.Bytes(), payload...)
	h, err := p.Evolve(fieldkit.Values{"checksum": fieldkit.Checksum(message)})
	if err != nil {
		return nil, err
	}
	return append(h.Bytes(), payload...), nil
}
