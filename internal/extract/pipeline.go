package extract

import (
	"context"
	"fmt"
)

// Step 流水线中的一步
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline 按顺序执行的步骤，遇到第一个错误即停止，已完成的步骤不回滚
type Pipeline struct {
	steps []Step
}

// Add 追加一步
func (p *Pipeline) Add(name string, run func(ctx context.Context) error) {
	p.steps = append(p.steps, Step{Name: name, Run: run})
}

// Len 步骤数量
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Run 执行所有步骤，返回成功完成的步骤数
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	for i, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			return i, fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return len(p.steps), nil
}
