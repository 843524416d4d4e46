package protocols

import (
	"fmt"
	"math/rand/v2"
	"net"
	"net/netip"

	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
)

// AddressField 表示 IPv4 或 IPv6 地址字段
// 地址族由当前值决定，IPv4 占 4 字节，IPv6 占 16 字节
//
// AddressField is an IPv4 or IPv6 address. The family of the current value
// decides the wire size: 4 bytes for IPv4, 16 for IPv6.
type AddressField struct {
	name     string
	def      netip.Addr
	value    netip.Addr
	computed bool
}

// NewAddressField 创建地址字段，def 可以是字符串、netip.Addr 或 net.IP
func NewAddressField(name string, def interface{}) (*AddressField, error) {
	if err := fieldkit.ValidateName(name); err != nil {
		return nil, err
	}
	addr, err := toAddr(name, "default", def)
	if err != nil {
		return nil, err
	}
	return &AddressField{name: name, def: addr, value: addr}, nil
}

func toAddr(name, attribute string, v interface{}) (netip.Addr, error) {
	var addr netip.Addr
	switch a := v.(type) {
	case string:
		parsed, err := netip.ParseAddr(a)
		if err != nil {
			return addr, errors.Wrapf(fieldkit.ErrValue, "%s %s %q is not a valid ip address", name, attribute, a)
		}
		addr = parsed
	case netip.Addr:
		addr = a
	case net.IP:
		parsed, ok := netip.AddrFromSlice(a)
		if !ok {
			return addr, errors.Wrapf(fieldkit.ErrValue, "%s %s %v is not a valid ip address", name, attribute, a)
		}
		// net.IP 总是以 16 字节保存 IPv4 地址
		addr = parsed.Unmap()
	default:
		return addr, errors.Wrapf(fieldkit.ErrType, "%s %s must be an ip address but you provided %v", name, attribute, v)
	}
	if !addr.IsValid() {
		return addr, errors.Wrapf(fieldkit.ErrValue, "%s %s must be a valid ip address", name, attribute)
	}
	if addr.Zone() != "" {
		return addr, errors.Wrapf(fieldkit.ErrValue, "%s %s %s has a zone which cannot be encoded", name, attribute, addr)
	}
	return addr, nil
}

func (f *AddressField) Name() string { return f.name }

func (f *AddressField) Default() interface{} { return f.def }

// Value 返回 netip.Addr
func (f *AddressField) Value() interface{} { return f.value }

// Addr 返回当前地址
func (f *AddressField) Addr() netip.Addr { return f.value }

func (f *AddressField) SetValue(v interface{}) error {
	addr, err := toAddr(f.name, "value", v)
	if err != nil {
		return err
	}
	f.value = addr
	return nil
}

func (f *AddressField) Size() int { return f.value.BitLen() / 8 }

func (f *AddressField) StructFormat() string {
	return fmt.Sprintf("!%ds", f.Size())
}

func (f *AddressField) Encode(_ *fieldkit.Packet) []byte {
	return f.value.AsSlice()
}

// Decode 按当前值的地址族读取地址
func (f *AddressField) Decode(buf []byte, _ *fieldkit.Packet) []byte {
	size := f.Size()
	if len(buf) < size {
		f.computed = false
		if fieldkit.DebugEnabled() {
			fieldkit.Logger().WithField("field", f.name).WithField("need", size).WithField("have", len(buf)).
				Debug("not enough bytes to compute field")
		}
		return []byte{}
	}
	addr, _ := netip.AddrFromSlice(buf[:size])
	f.value = addr
	f.computed = true
	return buf[size:]
}

func (f *AddressField) Computed() bool { return f.computed }

// RandomValue 返回与当前地址族相同的随机地址
func (f *AddressField) RandomValue() interface{} {
	if f.value.Is4() {
		return fmt.Sprintf("%d.%d.0.1", rand.IntN(192)+1, rand.IntN(168)+1)
	}
	return fmt.Sprintf("fe80::%d", rand.IntN(8)+1)
}

func (f *AddressField) Clone() fieldkit.Field {
	c := *f
	return &c
}

func (f *AddressField) String() string {
	return fmt.Sprintf("<AddressField: name=%s, value=%s, default=%s>", f.name, f.value, f.def)
}
