package protocols

import (
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/shengyanli1982/fieldkit"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"pgregory.net/rapid"
)

func TestNTPDefaults(t *testing.T) {
	p, err := NTP.New(nil)
	assert.NilError(t, err)
	assert.Equal(t, p.Len(), 48)
	// li=3 vn=4 mode=3
	assert.Equal(t, p.Bytes()[0], byte(0xe3))

	var ntp layers.NTP
	assert.NilError(t, ntp.DecodeFromBytes(p.Bytes(), gopacket.NilDecodeFeedback))
	assert.Equal(t, ntp.LeapIndicator, layers.NTPLeapIndicator(3))
	assert.Equal(t, ntp.Version, layers.NTPVersion(4))
	assert.Equal(t, ntp.Mode, layers.NTPMode(3))
}

func TestNTPDecodesGopacketServerReply(t *testing.T) {
	transmit := time.Date(2024, time.March, 1, 12, 30, 0, 250_000_000, time.UTC)
	ntp := &layers.NTP{
		LeapIndicator:      0,
		Version:            4,
		Mode:               4,
		Stratum:            2,
		Poll:               6,
		Precision:          -20,
		RootDelay:          0x10,
		RootDispersion:     0x20,
		ReferenceID:        0xc0a80001,
		ReferenceTimestamp: layers.NTPTimestamp(ToNTPTime(transmit.Add(-time.Minute))),
		ReceiveTimestamp:   layers.NTPTimestamp(ToNTPTime(transmit.Add(-time.Millisecond))),
		TransmitTimestamp:  layers.NTPTimestamp(ToNTPTime(transmit)),
	}
	buf := gopacket.NewSerializeBuffer()
	assert.NilError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, ntp))

	p := NTP.FromBytes(buf.Bytes())
	assert.Check(t, p.AllFieldsComputed())

	mode, _ := p.Uint("mode")
	stratum, _ := p.Uint("stratum")
	precision, _ := p.Int("precision")
	reference, _ := p.Uint("reference_id")
	ts, _ := p.Uint("transmit_timestamp")
	assert.Equal(t, mode, uint64(4))
	assert.Equal(t, stratum, uint64(2))
	assert.Equal(t, precision, int64(-20))
	assert.Equal(t, reference, uint64(0xc0a80001))
	assert.Check(t, NTPTime(ts).Equal(transmit))

	// stratum 大于 1 时没有参考代码
	// no reference code above stratum 1
	_, ok := p.Field("reference_code")
	assert.Check(t, ok)
	assert.Check(t, !strings.Contains(p.String(), "reference_code"))
}

func TestNTPReferenceCode(t *testing.T) {
	p, err := NTP.New(fieldkit.Values{"stratum": 1, "mode": "server", "li": 0, "reference_code": []byte("GPS\x00")})
	assert.NilError(t, err)

	var ntp layers.NTP
	assert.NilError(t, ntp.DecodeFromBytes(p.Bytes(), gopacket.NilDecodeFeedback))
	assert.Equal(t, ntp.ReferenceID, layers.NTPReferenceID(0x47505300))
	assert.Equal(t, ntp.Mode, layers.NTPMode(4))

	q := NTP.FromBytes(p.Bytes())
	code, err := q.Text("reference_code")
	assert.NilError(t, err)
	assert.Equal(t, code, "GPS\x00")
	assert.Check(t, q.Equal(p))

	assert.ErrorIs(t, p.Set("mode", "listener"), fieldkit.ErrValue)
	assert.ErrorIs(t, p.Set("vn", "four"), fieldkit.ErrValue)
}

func TestNTPTime(t *testing.T) {
	assert.Check(t, NTPTime(uint64(ntpEpochOffset)<<32).Equal(time.Unix(0, 0)))
	assert.Equal(t, ToNTPTime(time.Unix(1, 500_000_000)), uint64(ntpEpochOffset+1)<<32|0x80000000)

	rapid.Check(t, func(t *rapid.T) {
		sec := rapid.Int64Range(0, 1<<32-1-ntpEpochOffset).Draw(t, "sec")
		nsec := rapid.Int64Range(0, int64(time.Second)-1).Draw(t, "nsec")
		want := time.Unix(sec, nsec).UTC()
		if got := NTPTime(ToNTPTime(want)); !got.Equal(want) {
			t.Fatalf("NTPTime(ToNTPTime(%v)) = %v", want, got)
		}
	})
}

func TestNTPShort(t *testing.T) {
	p := NTP.FromBytes(make([]byte, 47))
	assert.Check(t, !p.AllFieldsComputed())
	assert.Check(t, is.Len(p.Template().Fields(), 12))
}
