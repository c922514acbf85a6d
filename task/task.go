// Package task 评估任务上下文与总控流程
package task

import (
	"github.com/sirupsen/logrus"

	"github.com/tsinghua-fib-lab/busnet-eval/extractor"
	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/replay"
	"github.com/tsinghua-fib-lab/busnet-eval/scoring"
	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
	"github.com/tsinghua-fib-lab/busnet-eval/writer"
)

// log 任务模块的日志记录器
var log = logrus.WithField("module", "task")

// Context 评估任务上下文
// 功能：包含一次评估任务的所有变量和状态，替代全局变量
// 说明：管理抽取、写入、评分各组件的构建与生命周期
type Context struct {

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 记录文件格式
	format writer.Format

	// 元数据存储
	metadataStore *metadata.Store
	// 已构建的元数据
	md *metadata.Metadata
	// 指标权重
	weights *scoring.Weights

	// 记录写入器
	writer *writer.Writer
	// 各抽取器，扇出顺序固定
	extractors []extractor.Extractor
}

// NewContext 创建新的评估任务上下文
// 功能：初始化评估管线的所有组件
// 参数：c-配置对象，format-记录文件格式
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 构建运行时配置（填充容量、批大小默认值）
// 2. 校验指标权重（和不为1.0立即失败，早于任何数据处理）
// 3. 加载情景描述并构建一次性只读元数据
// 4. 创建五路并发写入器
// 5. 创建各抽取器，注入元数据与写入器
func NewContext(c config.Config, format writer.Format) (*Context, error) {
	ctx := &Context{
		runtimeConfig: config.NewRuntimeConfig(c),
		format:        format,
		metadataStore: metadata.NewStore(),
	}

	weights, err := scoring.NewWeights(c.Scoring.Weights)
	if err != nil {
		return nil, err
	}
	ctx.weights = weights

	scenario, err := metadata.LoadScenario(c.Scenario)
	if err != nil {
		return nil, err
	}
	md, err := ctx.metadataStore.Build(ctx.runtimeConfig, scenario)
	if err != nil {
		return nil, err
	}
	ctx.md = md
	log.Infof(
		"metadata built: %d buses, %d blacklisted, %d links, %d lines",
		len(md.Bus), len(md.Blacklist), len(md.LinkLength), len(md.LineHeadway),
	)

	w, err := writer.New(
		c.Files.Data,
		ctx.runtimeConfig.All.BatchSize,
		ctx.runtimeConfig.All.ChannelCapacity,
		format,
	)
	if err != nil {
		return nil, err
	}
	ctx.writer = w

	targetIter := c.TargetIteration
	ctx.extractors = []extractor.Extractor{
		extractor.NewBusDelay(targetIter, md, w),
		extractor.NewBusPassenger(targetIter, md, w),
		extractor.NewTrip(targetIter, md, w),
		extractor.NewBusTrip(targetIter, md, w),
		extractor.NewLink(targetIter, md, w),
	}
	return ctx, nil
}

// RuntimeConfig 返回运行时配置
func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Metadata 返回已构建的元数据
func (ctx *Context) Metadata() *metadata.Metadata {
	return ctx.md
}

// Run 执行一次完整的评估
// 参数：eventsPath-事件文件，scorePath-得分输出文件，
// breakdownPath-明细输出文件（空串表示不输出）
// 算法说明：
// 1. 按目标迭代号重置各抽取器
// 2. 回放事件文件，扇出驱动各抽取器
// 3. 关闭写入器（保证全部缓冲落盘），输出吞吐统计
// 4. 装载落盘记录并评分，写得分文件与可选明细
// 说明：评分严格在写入器关闭之后执行，文件完整是查询的前提
func (ctx *Context) Run(eventsPath, scorePath, breakdownPath string) error {
	targetIter := ctx.runtimeConfig.All.TargetIteration
	for _, e := range ctx.extractors {
		e.Reset(targetIter)
	}

	parser := replay.NewParser(eventsPath, ctx.runtimeConfig.All.ChannelCapacity)
	handlers := make([]any, len(ctx.extractors))
	for i, e := range ctx.extractors {
		handlers[i] = e
	}
	if err := parser.Run(handlers...); err != nil {
		ctx.writer.Close()
		return err
	}

	if err := ctx.writer.Close(); err != nil {
		return err
	}
	parser.Tracker().LogMax()

	calc, err := scoring.NewCalculator(
		ctx.md, ctx.weights,
		ctx.runtimeConfig.All.Files.Data, ctx.format,
	)
	if err != nil {
		return err
	}
	defer calc.Close()
	calc.ForceAllMetrics(breakdownPath != "")

	recs, err := calc.Calculate()
	if err != nil {
		return err
	}
	if err := scoring.WriteScore(scorePath, recs.FinalScore); err != nil {
		return err
	}
	if breakdownPath != "" {
		if err := recs.WriteJSON(breakdownPath); err != nil {
			return err
		}
	}
	return nil
}

// Close 关闭上下文持有的资源
// 说明：幂等，Run内部已关闭写入器时重复关闭无副作用
func (ctx *Context) Close() error {
	return ctx.writer.Close()
}
