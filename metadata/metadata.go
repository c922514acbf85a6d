// Package metadata 情景元数据，构建一次后只读
package metadata

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"

	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
)

// Scenario 情景描述文件结构
// 功能：提供元数据构建所需的情景事实（车辆类型、路段长度、线路发车间隔等）
// 说明：完整的仿真情景加载由仿真引擎负责，本程序只消费其摘要
type Scenario struct {
	TotalPopulation   int                `yaml:"total_population"`   // 总人口
	ServiceCoverage   float64            `yaml:"service_coverage"`   // 服务覆盖率（预计算）
	TransitRouteRatio float64            `yaml:"transit_route_ratio"` // 公交线网比（预计算）
	TransitVehicles   map[string]string  `yaml:"transit_vehicles"`   // 公交系统车辆ID→车型ID
	Links             map[string]float64 `yaml:"links"`              // 路段ID→长度（米）
	LineHeadways      map[string]float64 `yaml:"line_headways"`      // 线路ID→计划发车间隔（秒）
}

// LoadScenario 从YAML文件加载情景描述
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario file load err: %w", err)
	}
	var s Scenario
	if err := yaml.UnmarshalStrict(raw, &s); err != nil {
		return nil, fmt.Errorf("scenario file parse err: %w", err)
	}
	return &s, nil
}

// Metadata 一次运行的分类集合与评分参数
// 功能：向各抽取器与评分器提供车辆分类、路段长度、容忍度等只读数据
// 说明：构建完成后不再修改，通过引用注入各组件，不做全局单例
type Metadata struct {
	Bus         map[string]struct{} // 公交车辆ID集合
	Blacklist   map[string]struct{} // 黑名单车辆ID集合（非公交的公交系统车辆）
	LinkLength  map[string]float64  // 路段ID→长度（米）
	LineHeadway map[string]float64  // 线路ID→计划发车间隔（秒）

	TotalPopulation   int     // 总人口
	ServiceCoverage   float64 // 服务覆盖率
	TransitRouteRatio float64 // 公交线网比

	EarlyHeadwayTolerance float64 // 早到容忍度（分钟）
	LateHeadwayTolerance  float64 // 晚到容忍度（分钟）
	TravelTimeBaseline    float64 // 出行时间基准（分钟）
	ProductivityBaseline  float64 // 生产率基准系数
}

// IsBus 判断车辆是否为公交车
func (m *Metadata) IsBus(vehicleID string) bool {
	_, ok := m.Bus[vehicleID]
	return ok
}

// IsBlacklisted 判断车辆是否在黑名单中
func (m *Metadata) IsBlacklisted(vehicleID string) bool {
	_, ok := m.Blacklist[vehicleID]
	return ok
}

// build 由情景与配置构建元数据
// 算法说明：
// 1. 按配置的车型标记对公交系统车辆做二分：车型ID包含任一标记
//    （不区分大小写）判为公交车，其余进入黑名单
// 2. 直接引用情景的路段长度、线路发车间隔
// 3. 从评分参数取各容忍度与基准
func build(cfg *config.RuntimeConfig, scenario *Scenario) *Metadata {
	markers := lo.Map(cfg.All.Classification.BusMarkers, func(m string, _ int) string {
		return strings.ToLower(m)
	})
	isBusType := func(typeID string) bool {
		t := strings.ToLower(typeID)
		return lo.SomeBy(markers, func(m string) bool {
			return strings.Contains(t, m)
		})
	}

	bus := make(map[string]struct{})
	blacklist := make(map[string]struct{})
	for vehicleID, typeID := range scenario.TransitVehicles {
		if isBusType(typeID) {
			bus[vehicleID] = struct{}{}
		} else {
			blacklist[vehicleID] = struct{}{}
		}
	}

	params := cfg.All.Scoring.Params
	return &Metadata{
		Bus:         bus,
		Blacklist:   blacklist,
		LinkLength:  scenario.Links,
		LineHeadway: scenario.LineHeadways,

		TotalPopulation:   scenario.TotalPopulation,
		ServiceCoverage:   scenario.ServiceCoverage,
		TransitRouteRatio: scenario.TransitRouteRatio,

		EarlyHeadwayTolerance: params.EarlyHeadwayTolerance,
		LateHeadwayTolerance:  params.LateHeadwayTolerance,
		TravelTimeBaseline:    params.TravelTimeBaseline,
		ProductivityBaseline:  params.ProductivityBaseline,
	}
}
