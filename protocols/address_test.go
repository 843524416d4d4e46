package protocols

import (
	"net"
	"net/netip"
	"testing"

	"github.com/shengyanli1982/fieldkit"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestAddressFieldSetValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  netip.Addr
		err   error
	}{
		{"String V4", "192.168.1.1", netip.MustParseAddr("192.168.1.1"), nil},
		{"String V6", "2001:db8::1", netip.MustParseAddr("2001:db8::1"), nil},
		{"Addr", netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.1"), nil},
		{"Net IP", net.ParseIP("10.0.0.2"), netip.MustParseAddr("10.0.0.2"), nil},
		{"Not An Address", "300.1.1.1", netip.MustParseAddr("127.0.0.1"), fieldkit.ErrValue},
		{"Zone", "fe80::1%eth0", netip.MustParseAddr("127.0.0.1"), fieldkit.ErrValue},
		{"Empty Addr", netip.Addr{}, netip.MustParseAddr("127.0.0.1"), fieldkit.ErrValue},
		{"Bad Net IP", net.IP{1, 2, 3}, netip.MustParseAddr("127.0.0.1"), fieldkit.ErrValue},
		{"Integer", 42, netip.MustParseAddr("127.0.0.1"), fieldkit.ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fieldkit.Must(NewAddressField("src", "127.0.0.1"))
			err := f.SetValue(tt.value)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NilError(t, err)
			}
			assert.Equal(t, f.Addr(), tt.want)
		})
	}
}

func TestAddressFieldWire(t *testing.T) {
	f := fieldkit.Must(NewAddressField("dst", "10.1.2.3"))
	assert.Equal(t, f.Size(), 4)
	assert.Equal(t, f.StructFormat(), "!4s")
	assert.DeepEqual(t, f.Encode(nil), []byte{10, 1, 2, 3})

	rest := f.Decode([]byte{192, 0, 2, 7, 0xff}, nil)
	assert.Check(t, f.Computed())
	assert.DeepEqual(t, rest, []byte{0xff})
	assert.Equal(t, f.Value(), netip.MustParseAddr("192.0.2.7"))

	g := fieldkit.Must(NewAddressField("dst", "::1"))
	assert.Equal(t, g.Size(), 16)
	assert.Equal(t, g.StructFormat(), "!16s")
	rest = g.Decode(make([]byte, 15), nil)
	assert.Check(t, is.Len(rest, 0))
	assert.Check(t, !g.Computed())
	assert.Equal(t, g.Addr(), netip.MustParseAddr("::1"))
}

func TestAddressFieldMisc(t *testing.T) {
	_, err := NewAddressField("1src", "127.0.0.1")
	assert.ErrorIs(t, err, fieldkit.ErrValue)
	_, err = NewAddressField("src", 7)
	assert.ErrorIs(t, err, fieldkit.ErrType)

	f := fieldkit.Must(NewAddressField("src", "127.0.0.1"))
	for i := 0; i < 50; i++ {
		assert.NilError(t, f.SetValue(f.RandomValue()))
		assert.Check(t, f.Addr().Is4())
	}
	g := fieldkit.Must(NewAddressField("src", "::1"))
	assert.NilError(t, g.SetValue(g.RandomValue()))
	assert.Check(t, g.Addr().Is6())

	c := f.Clone().(*AddressField)
	assert.NilError(t, c.SetValue("8.8.8.8"))
	assert.Check(t, f.Addr() != c.Addr())
	assert.Equal(t, c.String(), "<AddressField: name=src, value=8.8.8.8, default=127.0.0.1>")
}
