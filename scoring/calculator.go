package scoring

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
	"github.com/tsinghua-fib-lab/busnet-eval/writer"
)

// Calculator 综合得分计算器
// 功能：装载落盘记录后逐项计算指标，加权求和得到综合得分
// 说明：必须在全部写入器关闭之后运行，文件不完整时查询结果无意义
type Calculator struct {
	store   *Store
	md      *metadata.Metadata
	weights *Weights

	// forceAll 要求输出明细时连零权重指标也逐项计算
	forceAll bool
}

// NewCalculator 创建计算器并装载记录文件
// 参数：files-写入阶段的数据文件配置，format-记录文件格式
func NewCalculator(
	md *metadata.Metadata, weights *Weights,
	files config.DataFiles, format writer.Format,
) (*Calculator, error) {
	store, err := NewStore()
	if err != nil {
		return nil, err
	}
	for table, path := range map[string]string{
		TableBusPax:   files.BusPaxRecords,
		TableBusDelay: files.BusDelayRecords,
		TableBusTrip:  files.BusTripRecords,
		TableTrip:     files.TripRecords,
	} {
		if err := store.Load(table, path, format); err != nil {
			store.Close()
			return nil, err
		}
	}
	return &Calculator{store: store, md: md, weights: weights}, nil
}

// Close 释放底层SQL引擎
func (c *Calculator) Close() error {
	return c.store.Close()
}

// ForceAllMetrics 设置是否强制计算全部指标（含零权重项）
func (c *Calculator) ForceAllMetrics(force bool) {
	c.forceAll = force
}

func (c *Calculator) ridership() (float64, error) {
	n, err := c.store.Scalar(
		"SELECT COUNT(DISTINCT person_id) FROM " + TableBusPax)
	if err != nil {
		return 0, err
	}
	return n / float64(c.md.TotalPopulation), nil
}

func (c *Calculator) onTimePerf() (float64, error) {
	return c.store.Scalar(`
		SELECT
			COUNT(*) FILTER (
				WHERE arrival_delay >= ? AND arrival_delay <= ?
			) * 1.0 / COUNT(arrival_delay) AS on_time_ratio
		FROM `+TableBusDelay,
		-60.0*c.md.EarlyHeadwayTolerance,
		60.0*c.md.LateHeadwayTolerance,
	)
}

func (c *Calculator) travelTimeRatio() (float64, error) {
	v, err := c.store.Scalar(`
		SELECT
			(COALESCE(AVG(travel_time) FILTER (WHERE main_mode = 'pt'), 1e9) /
			COALESCE(AVG(travel_time) FILTER (WHERE main_mode = 'car'), 1.0)) AS tt_ratio
		FROM ` + TableTrip + `
		WHERE main_mode IN ('pt', 'car')`)
	if err != nil {
		return 0, err
	}
	return math.Exp(-v), nil
}

func (c *Calculator) travelTime() (float64, error) {
	v, err := c.store.Scalar(`
		SELECT
			(COALESCE(AVG(travel_time), 1e9) / ?) AS travel_time_score
		FROM `+TableTrip+`
		WHERE main_mode = 'pt'`,
		60.0*c.md.TravelTimeBaseline,
	)
	if err != nil {
		return 0, err
	}
	return math.Exp(-v), nil
}

func (c *Calculator) productivity() (float64, error) {
	v, err := c.store.Scalar(`
		WITH total_service_hours AS (
			SELECT
				COALESCE(SUM(travel_time) / 3600.0, 0.0) AS service_hours
			FROM ` + TableBusTrip + `
		),
		total_passenger AS (
			SELECT
				COUNT(DISTINCT person_id) AS passenger_count
			FROM ` + TableBusPax + `
		)
		SELECT
			(SELECT service_hours FROM total_service_hours) /
			NULLIF((SELECT passenger_count FROM total_passenger), 0) AS productivity_ratio`)
	if err != nil {
		return 0, err
	}
	return math.Exp(-c.md.ProductivityBaseline * v), nil
}

func (c *Calculator) busEfficiency() (float64, error) {
	v, err := c.store.Scalar(`
		SELECT
			COALESCE(SUM(link_length), 1e9) /
			NULLIF((SELECT COUNT(DISTINCT person_id) FROM ` + TableBusPax + `), 0)
		FROM ` + TableBusTrip)
	if err != nil {
		return 0, err
	}
	return math.Exp(-v), nil
}

func (c *Calculator) busEffectiveTravelDist() (float64, error) {
	return c.store.Scalar(`
		SELECT (
			SUM(
				CASE WHEN have_passenger THEN link_length ELSE 0.0 END
			) / NULLIF(SUM(link_length), 0.0)
		) AS effective_travel_distance_ratio
		FROM ` + TableBusTrip + `
		WHERE link_length IS NOT NULL`)
}

// busTransferRate 无换乘出行占比
// 算法说明：对主模式为pt的每条出行检查乘用车辆序列，存在相邻两辆
// 均为公交车即视为发生过换乘；返回未发生换乘的出行占比
func (c *Calculator) busTransferRate() (float64, error) {
	lists, err := c.store.TripVehLists("pt")
	if err != nil {
		return 0, err
	}
	if len(lists) == 0 {
		return math.NaN(), nil
	}
	withoutTransfer := 0
	for _, vehList := range lists {
		transferred := false
		for i := 1; i < len(vehList); i++ {
			if c.md.IsBus(vehList[i-1]) && c.md.IsBus(vehList[i]) {
				transferred = true
				break
			}
		}
		if !transferred {
			withoutTransfer++
		}
	}
	return float64(withoutTransfer) / float64(len(lists)), nil
}

// computeScore 单指标计算的统一包装
// 算法说明：
// 1. 权重非正且未要求明细时直接记0，不发查询
// 2. 任一必需数据源为空表时告警并记0，运行继续
// 3. 计算出错（查询失败）为致命错误，整次运行中止
// 4. 结果非有限值时告警并记0，运行继续
func (c *Calculator) computeScore(
	weight float64, name string, calc func() (float64, error),
	logOriginal bool, requiredSources ...string,
) (float64, error) {
	if weight <= 0 && !c.forceAll {
		return 0, nil
	}
	for _, src := range requiredSources {
		n, err := c.store.Count(src)
		if err != nil {
			return 0, fmt.Errorf("check %s err: %w", src, err)
		}
		if n == 0 {
			log.Warnf("skipping %s calculation: no events recorded", name)
			return 0, nil
		}
	}
	log.Infof("calculating %s...", name)
	score, err := calc()
	if err != nil {
		return 0, fmt.Errorf("calculate %s err: %w", name, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		log.Warnf("%s is not finite, counted as 0", name)
		return 0, nil
	}
	if logOriginal {
		log.Infof("calculated %s: %.4f", name, score)
	} else {
		log.Infof("calculated %s: %.4f%%", name, score*100)
	}
	return score, nil
}

// Calculate 计算全部指标与综合得分
// 返回：各指标明细（含final_score）
func (c *Calculator) Calculate() (*Records, error) {
	start := time.Now()
	recs := &Records{
		ServiceCoverage:   c.md.ServiceCoverage,
		TransitRouteRatio: c.md.TransitRouteRatio,
	}
	log.Infof("calculated service coverage: %.4f%%", recs.ServiceCoverage*100)
	log.Infof("calculated transit route ratio: %.4f%%", recs.TransitRouteRatio*100)

	var err error
	if recs.Ridership, err = c.computeScore(
		c.weights.Ridership,
		"ridership", c.ridership, false,
		TableBusPax,
	); err != nil {
		return nil, err
	}
	if recs.OnTimePerf, err = c.computeScore(
		c.weights.OnTimePerf,
		"on-time performance", c.onTimePerf, false,
		TableBusDelay,
	); err != nil {
		return nil, err
	}
	if recs.TransitAutoTimeRatio, err = c.computeScore(
		c.weights.TransitAutoTimeRatio,
		"transit-auto travel time ratio", c.travelTimeRatio, true,
		TableTrip,
	); err != nil {
		return nil, err
	}
	if recs.TravelTime, err = c.computeScore(
		c.weights.TravelTime,
		"travel time", c.travelTime, true,
		TableTrip,
	); err != nil {
		return nil, err
	}
	if recs.Productivity, err = c.computeScore(
		c.weights.Productivity,
		"productivity", c.productivity, true,
		TableBusTrip, TableBusPax,
	); err != nil {
		return nil, err
	}
	if recs.BusEfficiency, err = c.computeScore(
		c.weights.BusEfficiency,
		"bus efficiency", c.busEfficiency, true,
		TableBusTrip, TableBusPax,
	); err != nil {
		return nil, err
	}
	if recs.BusEffectiveTravelDist, err = c.computeScore(
		c.weights.BusEffectiveTravelDist,
		"bus effective travel distance rate", c.busEffectiveTravelDist, false,
		TableBusTrip,
	); err != nil {
		return nil, err
	}
	if recs.BusTransferRate, err = c.computeScore(
		c.weights.BusTransferRate,
		"bus transfer rate", c.busTransferRate, false,
		TableTrip,
	); err != nil {
		return nil, err
	}

	recs.FinalScore = floats.Dot(c.weights.vector(), recs.vector())
	log.Infof("score calculation completed in %v", time.Since(start))
	log.Infof("system-wide score: %.4f", recs.FinalScore)
	return recs, nil
}

// WriteScore 把综合得分写为8字节大端IEEE-754浮点文件
// 说明：写完置为只读，防止后续流程误改
func WriteScore(path string, score float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(score))
	if err := os.WriteFile(path, buf[:], 0644); err != nil {
		return fmt.Errorf("write score file err: %w", err)
	}
	if err := os.Chmod(path, 0444); err != nil {
		return fmt.Errorf("chmod score file err: %w", err)
	}
	return nil
}
