package config

// DataFiles 指定各记录类型输出文件的配置
// 功能：定义每类记录的落盘路径（不含扩展名，扩展名由输出格式决定）
// 说明：五类记录各自独立成文件，评分阶段按同样路径回读
type DataFiles struct {
	BusPaxRecords   string `yaml:"bus_pax_records"`   // 公交乘客记录
	BusDelayRecords string `yaml:"bus_delay_records"` // 公交延误记录
	BusTripRecords  string `yaml:"bus_trip_records"`  // 公交路段记录
	TripRecords     string `yaml:"trip_records"`      // 出行记录
	LinkRecords     string `yaml:"link_records"`      // 通用路段记录
}

// Files 输出文件配置
type Files struct {
	Data DataFiles `yaml:"data"` // 记录数据文件
}

// ScoringParams 评分参数配置
// 说明：容忍度单位为分钟，与评分指标公式保持一致
type ScoringParams struct {
	EarlyHeadwayTolerance float64 `yaml:"early_headway_tolerance"` // 早到容忍度（分钟）
	LateHeadwayTolerance  float64 `yaml:"late_headway_tolerance"`  // 晚到容忍度（分钟）
	TravelTimeBaseline    float64 `yaml:"travel_time_baseline"`    // 出行时间基准（分钟）
	ProductivityBaseline  float64 `yaml:"productivity_baseline"`   // 生产率基准系数
}

// ScoringWeights 各指标权重配置
// 说明：十项权重之和必须为1.0（浮点容差内），启动时校验
type ScoringWeights struct {
	ServiceCoverage        float64 `yaml:"service_coverage"`              // 服务覆盖率
	TransitRouteRatio      float64 `yaml:"transit_route_ratio"`           // 公交线网比
	Ridership              float64 `yaml:"ridership"`                     // 客流率
	OnTimePerf             float64 `yaml:"on_time_perf"`                  // 准点率
	TravelTime             float64 `yaml:"travel_time"`                   // 出行时间
	TransitAutoTimeRatio   float64 `yaml:"transit_auto_time_ratio"`       // 公交/小汽车时间比
	Productivity           float64 `yaml:"productivity"`                  // 生产率
	BusEfficiency          float64 `yaml:"bus_efficiency"`                // 公交效率
	BusEffectiveTravelDist float64 `yaml:"bus_effective_travel_distance"` // 有效行驶距离率
	BusTransferRate        float64 `yaml:"bus_transfer_rate"`             // 换乘率
}

// Scoring 评分配置
type Scoring struct {
	Params  ScoringParams  `yaml:"params"`  // 评分参数
	Weights ScoringWeights `yaml:"weights"` // 指标权重
}

// Classification 车辆分类规则配置
// 说明：车辆类型ID包含任一标记（不区分大小写）即判定为公交车，
// 其余公交系统车辆进入黑名单
type Classification struct {
	BusMarkers []string `yaml:"bus_markers"` // 公交车型标记子串
}

// Config YAML配置文件的根结构
// 功能：定义抽取与评分管线的全部配置项
type Config struct {
	Scenario        string         `yaml:"scenario"`                   // 情景描述文件路径
	TargetIteration int            `yaml:"target_iteration"`           // 采集的目标迭代号
	BatchSize       int            `yaml:"batch_size"`                 // 批量写入行数
	ChannelCapacity int            `yaml:"channel_capacity,omitempty"` // 通道容量，为0则取默认值
	Files           Files          `yaml:"files"`                      // 输出文件
	Classification  Classification `yaml:"classification"`             // 车辆分类规则
	Scoring         Scoring        `yaml:"scoring"`                    // 评分
}
