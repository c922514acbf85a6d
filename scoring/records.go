package scoring

import (
	"encoding/json"
	"fmt"
	"os"
)

// Records 各指标得分明细
// 说明：字段顺序与序列化键固定，配合final_score作为评分结果的
// 可读输出
type Records struct {
	TransitRouteRatio      float64 `json:"transit_route_ratio"`
	ServiceCoverage        float64 `json:"service_coverage"`
	Ridership              float64 `json:"ridership"`
	TravelTime             float64 `json:"travel_time"`
	TransitAutoTimeRatio   float64 `json:"transit_auto_time_ratio"`
	OnTimePerf             float64 `json:"on_time_perf"`
	Productivity           float64 `json:"productivity"`
	BusEfficiency          float64 `json:"bus_efficiency"`
	BusEffectiveTravelDist float64 `json:"bus_effective_travel_distance"`
	BusTransferRate        float64 `json:"bus_transfer_rate"`
	FinalScore             float64 `json:"final_score"`
}

// vector 按固定指标顺序展开为向量，与Weights.vector对应
func (r *Records) vector() []float64 {
	return []float64{
		r.TransitRouteRatio,
		r.ServiceCoverage,
		r.Ridership,
		r.TravelTime,
		r.TransitAutoTimeRatio,
		r.OnTimePerf,
		r.Productivity,
		r.BusEfficiency,
		r.BusEffectiveTravelDist,
		r.BusTransferRate,
	}
}

// WriteJSON 把明细写为格式化JSON文件
func (r *Records) WriteJSON(path string) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scoring records err: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write scoring records err: %w", err)
	}
	return nil
}
