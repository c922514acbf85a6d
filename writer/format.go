// Package writer 有界背压的并发记录持久化层
// 说明：每类记录一条有界通道+一个专属写盘协程，生产端非阻塞push；
// 批量写盘支持Arrow IPC流与CSV两种可互换编码（数据等价，字节不等价）
package writer

import "fmt"

// Format 输出文件格式
type Format string

const (
	FormatArrow Format = "arrow" // Arrow IPC流格式（二进制列式）
	FormatCSV   Format = "csv"   // 带表头的CSV文本格式
)

// ParseFormat 解析格式名
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatArrow, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (arrow/csv)", s)
	}
}

// ResolveExtension 为资料路径补全格式对应的扩展名
func (f Format) ResolveExtension(path string) string {
	return path + "." + string(f)
}
