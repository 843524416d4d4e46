package protocols

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
)

// DNS 资源记录类型
const (
	TypeA     = 1
	TypeNS    = 2
	TypeCNAME = 5
	TypePTR   = 12
	TypeTXT   = 16
	TypeAAAA  = 28
	TypeSPF   = 99
)

// DNSTypes 资源记录类型的枚举
var DNSTypes = fieldkit.Enumeration{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypePTR:   "PTR",
	TypeTXT:   "TXT",
	TypeAAAA:  "AAAA",
	TypeSPF:   "SPF",
}

// DNSClasses 资源记录类别的枚举
var DNSClasses = fieldkit.Enumeration{
	1:   "IN",
	2:   "CS",
	3:   "CH",
	4:   "HS",
	255: "ANY",
}

// DNSHeader 是 RFC 1035 定义的 DNS 消息头
// ad 和 cd 位来自 RFC 4035
var DNSHeader = fieldkit.Must(fieldkit.NewTemplate("DNS",
	fieldkit.Must(fieldkit.ShortField("id", 0, fieldkit.WithHex())),
	fieldkit.Must(fieldkit.ShortBitsField([]*fieldkit.FieldPart{
		fieldkit.Must(fieldkit.NewFieldPart("qr", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("opcode", 0, 4)),
		fieldkit.Must(fieldkit.NewFieldPart("aa", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("tc", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("rd", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("ra", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("z", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("ad", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("cd", 0, 1)),
		fieldkit.Must(fieldkit.NewFieldPart("rcode", 0, 4)),
	})),
	fieldkit.Must(fieldkit.ShortField("qdcount", 0)),
	fieldkit.Must(fieldkit.ShortField("ancount", 0)),
	fieldkit.Must(fieldkit.ShortField("nscount", 0)),
	fieldkit.Must(fieldkit.ShortField("arcount", 0)),
))

// DNSQuestion 是问题段中的一项
var DNSQuestion = fieldkit.Must(fieldkit.NewTemplate("Question",
	fieldkit.Must(NewDomainNameField("qname", "fieldkit.io")),
	fieldkit.Must(fieldkit.ShortField("qtype", TypeA, fieldkit.WithEnum(DNSTypes))),
	fieldkit.Must(fieldkit.ShortField("qclass", 1, fieldkit.WithEnum(DNSClasses))),
))

func recordType(types ...uint64) fieldkit.Predicate {
	return func(p *fieldkit.Packet) bool {
		t, err := p.Uint("type")
		return err == nil && slices.Contains(types, t)
	}
}

// DNSResourceRecord 是回答、授权和附加段中的资源记录
// 记录数据的布局由 type 决定；txt 和 spf 保存原始的字符串序列，
// 未知类型的数据保存在 rdata 中
//
// DNSResourceRecord is a resource record of the answer, authority or
// additional sections. The type selects the layout of the record data. TXT
// and SPF data are kept as raw character-strings; unknown types keep their
// data in rdata.
var DNSResourceRecord = fieldkit.Must(fieldkit.NewTemplate("ResourceRecord",
	fieldkit.Must(NewDomainNameField("name", "fieldkit.io")),
	fieldkit.Must(fieldkit.ShortField("type", TypeA, fieldkit.WithEnum(DNSTypes))),
	fieldkit.Must(fieldkit.ShortField("rrclass", 1, fieldkit.WithEnum(DNSClasses))),
	fieldkit.Must(fieldkit.IntField("ttl", 0)),
	fieldkit.Must(fieldkit.ShortField("rdlength", 0)),
	when(fieldkit.Must(NewAddressField("a", "127.0.0.1")), recordType(TypeA)),
	when(fieldkit.Must(NewAddressField("aaaa", "::1")), recordType(TypeAAAA)),
	when(fieldkit.Must(NewDomainNameField("cname", "fieldkit.io")), recordType(TypeCNAME)),
	when(fieldkit.Must(NewDomainNameField("ns", "fieldkit.io")), recordType(TypeNS)),
	when(fieldkit.Must(NewDomainNameField("ptr", "1.0.0.127.in-addr.arpa")), recordType(TypePTR)),
	when(fieldkit.Must(fieldkit.NewVariableStringField("txt", []byte{}, fieldkit.SizeFrom("rdlength"))),
		recordType(TypeTXT)),
	when(fieldkit.Must(fieldkit.NewVariableStringField("spf", []byte{}, fieldkit.SizeFrom("rdlength"))),
		recordType(TypeSPF)),
	when(fieldkit.Must(fieldkit.NewVariableStringField("rdata", []byte{}, fieldkit.SizeFrom("rdlength"))),
		func(p *fieldkit.Packet) bool {
			return !recordType(TypeA, TypeAAAA, TypeCNAME, TypeNS, TypePTR, TypeTXT, TypeSPF)(p)
		}),
))

// DNSMessage 是完整的 DNS 消息：消息头和四个段
// DNSMessage is a whole DNS message: the header and its four sections.
type DNSMessage struct {
	Header     *fieldkit.Packet
	Questions  []*fieldkit.Packet
	Answers    []*fieldkit.Packet
	Authority  []*fieldkit.Packet
	Additional []*fieldkit.Packet
}

// NewDNSQuery 创建只包含一个问题的递归查询
// NewDNSQuery builds a recursive query with a single question. qtype is a
// type number or a name of DNSTypes.
func NewDNSQuery(id uint16, name string, qtype interface{}) (*DNSMessage, error) {
	header, err := DNSHeader.New(fieldkit.Values{"id": id, "rd": 1, "qdcount": 1})
	if err != nil {
		return nil, err
	}
	question, err := DNSQuestion.New(fieldkit.Values{"qname": name, "qtype": qtype})
	if err != nil {
		return nil, err
	}
	return &DNSMessage{Header: header, Questions: []*fieldkit.Packet{question}}, nil
}

// ParseDNS 解析 DNS 消息，域名中的压缩指针会被展开
// 与 Template.FromBytes 不同，截断的消息会返回 ErrLength
//
// ParseDNS decodes a DNS message, expanding compressed names. Unlike
// Template.FromBytes a truncated message is an error wrapping ErrLength.
func ParseDNS(data []byte) (*DNSMessage, error) {
	header := DNSHeader.FromBytes(data)
	if !header.AllFieldsComputed() {
		return nil, errors.Wrapf(fieldkit.ErrLength, "dns message of %d bytes is shorter than its header", len(data))
	}
	m := &DNSMessage{Header: header}
	cursor := header.Len()

	sections := []struct {
		name     string
		count    string
		template *fieldkit.Template
		records  *[]*fieldkit.Packet
	}{
		{"question", "qdcount", DNSQuestion, &m.Questions},
		{"answer", "ancount", DNSResourceRecord, &m.Answers},
		{"authority", "nscount", DNSResourceRecord, &m.Authority},
		{"additional", "arcount", DNSResourceRecord, &m.Additional},
	}
	for _, s := range sections {
		count, err := header.Uint(s.count)
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			p, n, err := decodeRecord(s.template, data, cursor)
			if err != nil {
				return nil, errors.Wrapf(err, "%s %d at offset %d", s.name, i, cursor)
			}
			*s.records = append(*s.records, p)
			cursor += n
		}
	}
	if cursor < len(data) && fieldkit.DebugEnabled() {
		fieldkit.Logger().WithField("trailing", len(data)-cursor).Debug("bytes left after dns message")
	}
	return m, nil
}

// decodeRecord 从 message[offset:] 解析一条记录，返回消耗的字节数
// 消耗的字节数按线路上的长度计算，压缩的域名在重新编码后会变长
func decodeRecord(t *fieldkit.Template, message []byte, offset int) (*fieldkit.Packet, int, error) {
	p, rest := t.DecodePrefix(message[offset:], func(f fieldkit.Field, p *fieldkit.Packet) {
		attach(f, p, message)
	})
	if !p.AllFieldsComputed() {
		return nil, 0, errors.Wrapf(fieldkit.ErrLength, "%s is truncated", t.Name())
	}
	return p, len(message) - offset - len(rest), nil
}

// attach 为即将解析的域名字段附加完整消息
func attach(f fieldkit.Field, p *fieldkit.Packet, message []byte) {
	switch v := f.(type) {
	case *DomainNameField:
		v.SetMessage(message)
	case *fieldkit.ConditionalField:
		if v.Active(p) {
			attach(v.Inner(), p, message)
		}
	}
}

// Bytes 返回消息的字节，域名不压缩
// 消息头中的计数和每条记录的 rdlength 按实际内容填充，m 本身不会被修改
//
// Bytes encodes the message without name compression. Section counts and
// rdlength are filled from the actual content; m is left untouched.
func (m *DNSMessage) Bytes() ([]byte, error) {
	if m.Header == nil {
		return nil, errors.Wrap(fieldkit.ErrType, "dns message has no header")
	}
	header, err := m.Header.Evolve(fieldkit.Values{
		"qdcount": len(m.Questions),
		"ancount": len(m.Answers),
		"nscount": len(m.Authority),
		"arcount": len(m.Additional),
	})
	if err != nil {
		return nil, err
	}

	data := header.Bytes()
	for _, q := range m.Questions {
		data = append(data, q.Bytes()...)
	}
	for _, section := range [][]*fieldkit.Packet{m.Answers, m.Authority, m.Additional} {
		for _, rr := range section {
			filled, err := rr.Evolve(fieldkit.Values{"rdlength": rdataLength(rr)})
			if err != nil {
				return nil, err
			}
			data = append(data, filled.Bytes()...)
		}
	}
	return data, nil
}

// rdataLength 返回 rdlength 之后所有出现在线路上的字段长度
func rdataLength(rr *fieldkit.Packet) int {
	n, after := 0, false
	for _, f := range rr.Fields() {
		if after {
			if c, ok := f.(*fieldkit.ConditionalField); !ok || c.Active(rr) {
				n += f.Size()
			}
		}
		if f.Name() == "rdlength" {
			after = true
		}
	}
	return n
}
