package fieldkit

import (
	"bytes"
	"sync"
)

// maxPooledCap 超过该容量的缓冲区直接丢弃，避免大包长期占用内存
const maxPooledCap = 64 << 10

// bufferPool 供数据包编码和十六进制视图复用
// bufferPool backs packet encoding and hexdump rendering.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 128))
	},
}

func acquireBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func releaseBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledCap {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// withBuffer 在池化缓冲区上执行 fill，返回写入内容的独立副本
// withBuffer runs fill on a pooled buffer and returns a copy of what it
// wrote. The buffer never escapes.
func withBuffer(fill func(*bytes.Buffer)) []byte {
	buf := acquireBuffer()
	defer releaseBuffer(buf)
	fill(buf)
	return bytes.Clone(buf.Bytes())
}
