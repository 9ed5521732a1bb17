package types

import (
	"github.com/palemoky/trick-taking/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetName() string
	GetTable() string
	SetTable(id string)
	SendMessage(msg *protocol.Message)
	Close()
}
