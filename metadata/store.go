package metadata

import (
	"errors"

	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
)

var (
	// ErrAlreadyBuilt 元数据重复构建
	ErrAlreadyBuilt = errors.New("metadata is already built")
	// ErrNotBuilt 元数据尚未构建即被读取
	ErrNotBuilt = errors.New("metadata is not built, call Build first")
)

// Store 元数据存储
// 功能：管理元数据的构建一次、只读的生命周期
// 说明：每次运行构建恰好一次，重复构建或先读后建都立即报错
type Store struct {
	md *Metadata
}

// NewStore 创建空的元数据存储
func NewStore() *Store {
	return &Store{}
}

// Build 构建元数据
// 参数：cfg-运行时配置，scenario-情景描述
// 返回：构建完成的元数据；若已构建过则报错
func (s *Store) Build(cfg *config.RuntimeConfig, scenario *Scenario) (*Metadata, error) {
	if s.md != nil {
		return nil, ErrAlreadyBuilt
	}
	s.md = build(cfg, scenario)
	return s.md, nil
}

// Metadata 读取已构建的元数据
// 返回：元数据；若尚未构建则报错
func (s *Store) Metadata() (*Metadata, error) {
	if s.md == nil {
		return nil, ErrNotBuilt
	}
	return s.md, nil
}
