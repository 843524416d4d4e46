package fieldkit

import (
	"io"

	"github.com/pkg/errors"
)

// Pack 将数据包编码后写入写入器
// Pack encodes the packet and writes it to the writer in one call.
func Pack(writer io.Writer, p *Packet) error {
	if p == nil {
		return typeErrorf("cannot pack a nil packet")
	}
	if _, err := writer.Write(p.Bytes()); err != nil {
		return errors.Wrapf(err, "writing %s failed", p.Name())
	}
	return nil
}

// Unpack 从读取器中读取所有字节并按模板解析
// 字节不足不是错误，调用方通过 AllFieldsComputed 判断数据包是否完整
//
// Unpack reads the reader to the end and decodes the bytes with the template.
// As with FromBytes a short read is not an error: check AllFieldsComputed.
func Unpack(reader io.Reader, t *Template) (*Packet, error) {
	if t == nil {
		return nil, typeErrorf("cannot unpack without a packet template")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s failed", t.Name())
	}
	return t.FromBytes(data), nil
}

// UnpackLayers 从读取器中读取所有字节并依次解析多层数据包
func UnpackLayers(reader io.Reader, templates ...*Template) ([]*Packet, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "reading layers failed")
	}
	return ExtractLayers(data, templates...)
}
