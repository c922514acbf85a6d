// Package scoring 公交网络综合评分引擎
// 功能：写入阶段结束后对落盘记录发起聚合查询，计算十项归一化指标，
// 按权重加权求和得到综合得分，可选输出各指标明细
package scoring

import (
	"fmt"
	"math"

	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
)

// weightSumEpsilon 权重和校验的浮点容差
const weightSumEpsilon = 1e-10

// Weights 各指标权重
// 说明：十项权重之和必须为1.0（容差内），构造时校验，任何查询执行之前失败
type Weights struct {
	ServiceCoverage        float64
	TransitRouteRatio      float64
	Ridership              float64
	OnTimePerf             float64
	TravelTime             float64
	TransitAutoTimeRatio   float64
	Productivity           float64
	BusEfficiency          float64
	BusEffectiveTravelDist float64
	BusTransferRate        float64
}

// NewWeights 从配置构造权重并校验
// 参数：cfg-配置文件中的权重节
// 返回：权重和偏离1.0超过容差时返回错误
func NewWeights(cfg config.ScoringWeights) (*Weights, error) {
	w := &Weights{
		ServiceCoverage:        cfg.ServiceCoverage,
		TransitRouteRatio:      cfg.TransitRouteRatio,
		Ridership:              cfg.Ridership,
		OnTimePerf:             cfg.OnTimePerf,
		TravelTime:             cfg.TravelTime,
		TransitAutoTimeRatio:   cfg.TransitAutoTimeRatio,
		Productivity:           cfg.Productivity,
		BusEfficiency:          cfg.BusEfficiency,
		BusEffectiveTravelDist: cfg.BusEffectiveTravelDist,
		BusTransferRate:        cfg.BusTransferRate,
	}
	sum := w.sum()
	if math.Abs(sum-1.0) > weightSumEpsilon {
		return nil, fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	return w, nil
}

func (w *Weights) sum() float64 {
	return w.ServiceCoverage + w.TransitRouteRatio + w.Ridership +
		w.OnTimePerf + w.TravelTime + w.TransitAutoTimeRatio +
		w.Productivity + w.BusEfficiency + w.BusEffectiveTravelDist +
		w.BusTransferRate
}

// vector 按固定指标顺序展开为向量，与Records.vector对应
func (w *Weights) vector() []float64 {
	return []float64{
		w.TransitRouteRatio,
		w.ServiceCoverage,
		w.Ridership,
		w.TravelTime,
		w.TransitAutoTimeRatio,
		w.OnTimePerf,
		w.Productivity,
		w.BusEfficiency,
		w.BusEffectiveTravelDist,
		w.BusTransferRate,
	}
}
