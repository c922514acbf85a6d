package config

// 通道容量与批大小的缺省值，容量按正常负载下不会写满来取
const (
	DefaultChannelCapacity = 200_000
	DefaultBatchSize       = 10_000
)

// RuntimeConfig 运行时配置
// 功能：存储管线运行时的配置信息，补全缺省值后供各组件使用
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config // 全部配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，填充缺省值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 算法说明：
// 1. 创建运行时配置对象
// 2. 设置默认值：未指定批大小、通道容量时取缺省常量
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	if rc.All.BatchSize <= 0 {
		rc.All.BatchSize = DefaultBatchSize
	}
	if rc.All.ChannelCapacity <= 0 {
		rc.All.ChannelCapacity = DefaultChannelCapacity
	}

	return rc
}
