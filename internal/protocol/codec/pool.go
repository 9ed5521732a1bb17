package codec

import (
	"bytes"
	"sync"

	"github.com/palemoky/trick-taking/internal/protocol"
)

// maxPooledBuffer 超过该容量的缓冲区不放回池中，避免偶发的大消息长期占用内存
const maxPooledBuffer = 64 << 10

var (
	messagePool = sync.Pool{
		New: func() any { return &protocol.Message{} },
	}

	bufferPool = sync.Pool{
		New: func() any { return new(bytes.Buffer) },
	}
)

// GetMessage 从池中取一个空消息，读循环每条消息复用一次
func GetMessage() *protocol.Message {
	return messagePool.Get().(*protocol.Message)
}

// PutMessage 清空后放回池中。放回后调用方不能再持有 Payload。
func PutMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}
	*msg = protocol.Message{}
	messagePool.Put(msg)
}

// GetBuffer 取一个编码缓冲区
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer 重置后放回；容量过大的直接丢弃
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
