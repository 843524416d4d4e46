package protocols

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
)

const (
	maxLabelLength = 63
	maxNameLength  = 255
	// 压缩指针跳转次数上限，防止指针成环
	maxPointers = 128
)

var topLevelDomains = []string{"fr", "com", "net", "org", "edu", "gov"}

// DomainNameField 表示 RFC 1035 编码的域名
// 编码时总是写出完整的标签序列；解析时支持压缩指针，
// 指针指向的内容从 SetMessage 附加的完整消息中读取
//
// DomainNameField is an RFC 1035 domain name. Encode always writes the full
// label sequence. Decode follows compression pointers into the whole message
// attached with SetMessage.
type DomainNameField struct {
	name     string
	def      []string
	labels   []string
	message  []byte
	computed bool
}

// NewDomainNameField 创建域名字段，默认值末尾的点可以省略
func NewDomainNameField(name, def string) (*DomainNameField, error) {
	if err := fieldkit.ValidateName(name); err != nil {
		return nil, err
	}
	labels, err := splitName(name, "default", def)
	if err != nil {
		return nil, err
	}
	return &DomainNameField{name: name, def: labels, labels: labels}, nil
}

// splitName 将域名拆分为标签并检查长度限制
func splitName(name, attribute, domain string) ([]string, error) {
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return nil, nil
	}
	labels := strings.Split(domain, ".")
	total := 1
	for _, label := range labels {
		if label == "" {
			return nil, errors.Wrapf(fieldkit.ErrValue, "%s %s %q has an empty label", name, attribute, domain)
		}
		if len(label) > maxLabelLength {
			return nil, errors.Wrapf(fieldkit.ErrLength, "%s %s label %q is longer than %d bytes",
				name, attribute, label, maxLabelLength)
		}
		total += len(label) + 1
	}
	if total > maxNameLength {
		return nil, errors.Wrapf(fieldkit.ErrLength, "%s %s %q is longer than %d bytes once encoded",
			name, attribute, domain, maxNameLength)
	}
	return labels, nil
}

func joinName(labels []string) string {
	return strings.Join(labels, ".") + "."
}

// SetMessage 附加用于解析压缩指针的完整消息，只对下一次 Decode 生效
// SetMessage attaches the whole message compression pointers point into. It
// only serves the next Decode, which detaches it. Without a message Decode
// rejects compressed names.
func (f *DomainNameField) SetMessage(message []byte) { f.message = message }

func (f *DomainNameField) Name() string { return f.name }

func (f *DomainNameField) Default() interface{} { return joinName(f.def) }

// Value 返回以点结尾的完整域名
func (f *DomainNameField) Value() interface{} { return joinName(f.labels) }

// Labels 返回域名的各个标签
func (f *DomainNameField) Labels() []string {
	return append([]string(nil), f.labels...)
}

func (f *DomainNameField) SetValue(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return errors.Wrapf(fieldkit.ErrType, "%s value must be a string but you provided %v", f.name, v)
	}
	labels, err := splitName(f.name, "value", s)
	if err != nil {
		return err
	}
	f.labels = labels
	return nil
}

func (f *DomainNameField) Size() int {
	n := 1
	for _, label := range f.labels {
		n += len(label) + 1
	}
	return n
}

func (f *DomainNameField) StructFormat() string {
	var b strings.Builder
	b.WriteString("!")
	for _, label := range f.labels {
		fmt.Fprintf(&b, "B%ds", len(label))
	}
	b.WriteString("B")
	return b.String()
}

func (f *DomainNameField) Encode(_ *fieldkit.Packet) []byte {
	buf := make([]byte, 0, f.Size())
	for _, label := range f.labels {
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
	}
	return append(buf, 0)
}

func (f *DomainNameField) Decode(buf []byte, _ *fieldkit.Packet) []byte {
	labels, n, err := readName(buf, f.message)
	f.message = nil
	if err != nil {
		f.computed = false
		if fieldkit.DebugEnabled() {
			fieldkit.Logger().WithField("field", f.name).WithError(err).Debug("cannot compute domain name")
		}
		return []byte{}
	}
	f.labels = labels
	f.computed = true
	return buf[n:]
}

// readName 读取一个域名，返回标签和在 buf 中消耗的字节数
// readName reads a name starting at buf[0]. It returns the labels and the
// number of bytes consumed from buf: a pointer ends the name in buf even
// though its labels are read from message.
func readName(buf, message []byte) ([]string, int, error) {
	var labels []string
	data, offset := buf, 0
	consumed, jumps, total := -1, 0, 1
	for {
		if offset >= len(data) {
			return nil, 0, errors.Wrap(fieldkit.ErrLength, "name is truncated")
		}
		length := int(data[offset])
		switch {
		case length == 0:
			if consumed < 0 {
				consumed = offset + 1
			}
			return labels, consumed, nil

		case length&0xc0 == 0xc0:
			if offset+2 > len(data) {
				return nil, 0, errors.Wrap(fieldkit.ErrLength, "compression pointer is truncated")
			}
			if message == nil {
				return nil, 0, errors.Wrap(fieldkit.ErrValue, "compressed name without a message")
			}
			if consumed < 0 {
				consumed = offset + 2
			}
			if jumps++; jumps > maxPointers {
				return nil, 0, errors.Wrap(fieldkit.ErrValue, "too many compression pointers")
			}
			data, offset = message, int(binary.BigEndian.Uint16(data[offset:])&0x3fff)

		case length&0xc0 != 0:
			return nil, 0, errors.Wrapf(fieldkit.ErrValue, "unsupported label type %#x", length&0xc0)

		default:
			if offset+1+length > len(data) {
				return nil, 0, errors.Wrap(fieldkit.ErrLength, "label is truncated")
			}
			if total += length + 1; total > maxNameLength {
				return nil, 0, errors.Wrapf(fieldkit.ErrLength, "name is longer than %d bytes", maxNameLength)
			}
			labels = append(labels, string(data[offset+1:offset+1+length]))
			offset += 1 + length
		}
	}
}

func (f *DomainNameField) Computed() bool { return f.computed }

// RandomValue 返回形如 "abcdefghij.com" 的随机域名
func (f *DomainNameField) RandomValue() interface{} {
	label, _ := fieldkit.RandString(10, "abcdefghijklmnopqrstuvwxyz")
	return label + "." + topLevelDomains[rand.IntN(len(topLevelDomains))]
}

func (f *DomainNameField) Clone() fieldkit.Field {
	c := *f
	c.def = append([]string(nil), f.def...)
	c.labels = append([]string(nil), f.labels...)
	return &c
}

func (f *DomainNameField) String() string {
	return fmt.Sprintf("<DomainNameField: name=%s, value=%s, default=%s>", f.name, f.Value(), f.Default())
}
