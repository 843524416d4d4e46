package fieldkit

// ExtractLayers 从 data 中依次解析多层数据包
// 每层消耗的字节数等于该层重新编码后的长度
//
// ExtractLayers decodes consecutive layers from data, one per template. The
// cursor advances by the length of each decoded layer re-encoded. Layers past
// the end of data are decoded from an empty buffer and report
// AllFieldsComputed false.
func ExtractLayers(data []byte, templates ...*Template) ([]*Packet, error) {
	if len(templates) == 0 {
		return nil, valueErrorf("at least one packet template must be given")
	}
	for i, t := range templates {
		if t == nil {
			return nil, typeErrorf("layer %d must be a packet template but you provided nil", i)
		}
	}

	layers := make([]*Packet, 0, len(templates))
	cursor := 0
	for _, t := range templates {
		p := t.FromBytes(data[cursor:])
		consumed := len(p.Bytes())
		if DebugEnabled() {
			logger.WithField("packet", t.name).WithField("offset", cursor).WithField("length", consumed).
				Debug("layer extracted")
		}
		cursor = min(cursor+consumed, len(data))
		layers = append(layers, p)
	}
	return layers, nil
}
