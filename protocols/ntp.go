package protocols

import (
	"time"

	"github.com/shengyanli1982/fieldkit"
)

// NTPLeapIndicators 闰秒指示的枚举
var NTPLeapIndicators = fieldkit.Enumeration{
	0: "no warning",
	1: "last minute of the day has 61 seconds",
	2: "last minute of the day has 59 seconds",
	3: "unknown (clock unsynchronized)",
}

// NTPModes 工作模式的枚举
var NTPModes = fieldkit.Enumeration{
	0: "reserved",
	1: "symmetric active",
	2: "symmetric passive",
	3: "client",
	4: "server",
	5: "broadcast",
	6: "NTP control message",
	7: "reserved for private use",
}

func stratumBelow(n uint64) fieldkit.Predicate {
	return func(p *fieldkit.Packet) bool {
		s, err := p.Uint("stratum")
		return err == nil && s < n
	}
}

// NTP 是 RFC 5905 定义的 NTPv4 报文头
// stratum 小于 2 时参考标识是 4 个 ASCII 字符，否则是上游服务器的标识
//
// NTP is the RFC 5905 packet header. For stratum 0 and 1 the reference
// identifier is a four character code; above, it identifies the upstream
// server.
var NTP = fieldkit.Must(fieldkit.NewTemplate("NTP",
	fieldkit.Must(fieldkit.ByteBitsField([]*fieldkit.FieldPart{
		fieldkit.Must(fieldkit.NewFieldPart("li", 0b11, 2, fieldkit.WithEnum(NTPLeapIndicators))),
		fieldkit.Must(fieldkit.NewFieldPart("vn", 0b100, 3)),
		fieldkit.Must(fieldkit.NewFieldPart("mode", 0b011, 3, fieldkit.WithEnum(NTPModes))),
	})),
	fieldkit.Must(fieldkit.ByteField("stratum", 0)),
	fieldkit.Must(fieldkit.SignedByteField("poll", 0)),
	fieldkit.Must(fieldkit.SignedByteField("precision", 0)),
	fieldkit.Must(fieldkit.IntField("root_delay", 0)),
	fieldkit.Must(fieldkit.IntField("root_dispersion", 0)),
	when(fieldkit.Must(fieldkit.NewFixedStringField("reference_code", []byte{0, 0, 0, 0}, 4)), stratumBelow(2)),
	when(fieldkit.Must(fieldkit.IntField("reference_id", 0, fieldkit.WithHex())),
		func(p *fieldkit.Packet) bool { return !stratumBelow(2)(p) }),
	fieldkit.Must(fieldkit.LongField("reference_timestamp", 0)),
	fieldkit.Must(fieldkit.LongField("origin_timestamp", 0)),
	fieldkit.Must(fieldkit.LongField("receive_timestamp", 0)),
	fieldkit.Must(fieldkit.LongField("transmit_timestamp", 0)),
))

// ntpEpochOffset 1900-01-01 到 1970-01-01 的秒数
const ntpEpochOffset = 2208988800

// NTPTime 将 64 位 NTP 时间戳转换为 time.Time
// 高 32 位是自 1900 年起的秒数，低 32 位是秒的小数部分
//
// NTPTime converts a 64-bit NTP timestamp (32-bit seconds since 1900, 32-bit
// fraction) to a time.Time in UTC.
func NTPTime(ts uint64) time.Time {
	seconds := int64(ts>>32) - ntpEpochOffset
	nanos := (ts & 0xffffffff) * uint64(time.Second) >> 32
	return time.Unix(seconds, int64(nanos)).UTC()
}

// ToNTPTime 将 time.Time 转换为 64 位 NTP 时间戳
func ToNTPTime(t time.Time) uint64 {
	seconds := uint64(t.Unix() + ntpEpochOffset)
	fraction := (uint64(t.Nanosecond())<<32 + uint64(time.Second) - 1) / uint64(time.Second)
	return seconds<<32 | fraction&0xffffffff
}
