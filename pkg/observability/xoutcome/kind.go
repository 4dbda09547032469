package xoutcome

import (
	"fmt"
	"strings"
)

// EntryKind 描述调用在拓扑中的位置。
type EntryKind uint8

const (
	KindUnknown EntryKind = iota
	// KindRPCIn 入站 RPC。
	KindRPCIn
	// KindWebIn 入站 HTTP。
	KindWebIn
	// KindMQIn 入站消息消费。
	KindMQIn
	// KindJobIn 定时任务。
	KindJobIn
	// KindClientOut 出站客户端调用。
	KindClientOut
	// KindStorageOut 出站存储访问。
	KindStorageOut
	// KindMQOut 出站消息发送。
	KindMQOut
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindRPCIn:      "rpc_in",
	KindWebIn:      "web_in",
	KindMQIn:       "mq_in",
	KindJobIn:      "job_in",
	KindClientOut:  "client_out",
	KindStorageOut: "storage_out",
	KindMQOut:      "mq_out",
}

// String 返回配置与标签中使用的名称，如 rpc_in。
func (k EntryKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Inbound 报告是否为入站调用。
func (k EntryKind) Inbound() bool {
	return k >= KindRPCIn && k <= KindJobIn
}

// ParseEntryKind 解析入口类型名（忽略大小写，- 与 _ 等价）。
func ParseEntryKind(s string) (EntryKind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, n := range kindNames {
		if n == name {
			return EntryKind(k), nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText 实现 encoding.TextMarshaler。
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler。
func (k *EntryKind) UnmarshalText(data []byte) error {
	parsed, err := ParseEntryKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
