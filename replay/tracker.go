package replay

// ThroughputTracker 通道吞吐统计器
// 功能：按仿真秒统计回放事件量，记录峰值，用于校核队列容量配置
type ThroughputTracker struct {
	second    int64
	count     int
	byType    map[string]int
	maxCount  int
	maxSecond int64
	maxByType map[string]int
	total     int64
}

// NewThroughputTracker 创建吞吐统计器
func NewThroughputTracker() *ThroughputTracker {
	return &ThroughputTracker{
		second: -1,
		byType: make(map[string]int),
	}
}

// Record 记一条事件
// 参数：simTime-事件的仿真时刻，eventType-事件类型
func (t *ThroughputTracker) Record(simTime float64, eventType string) {
	sec := int64(simTime)
	if sec != t.second {
		t.roll()
		t.second = sec
	}
	t.count++
	t.byType[eventType]++
	t.total++
}

// roll 跨秒时结算上一秒的统计
func (t *ThroughputTracker) roll() {
	if t.second >= 0 && t.count > t.maxCount {
		t.maxCount = t.count
		t.maxSecond = t.second
		t.maxByType = t.byType
	}
	t.count = 0
	t.byType = make(map[string]int)
}

// Total 返回累计事件量
func (t *ThroughputTracker) Total() int64 {
	return t.total
}

// LogMax 输出峰值秒的统计
func (t *ThroughputTracker) LogMax() {
	t.roll()
	if t.maxCount == 0 {
		log.Info("throughput: no events recorded")
		return
	}
	log.Infof("throughput: peak %d events at t=%d (total %d)", t.maxCount, t.maxSecond, t.total)
	for typ, n := range t.maxByType {
		log.Debugf("throughput: peak second %s=%d", typ, n)
	}
}
