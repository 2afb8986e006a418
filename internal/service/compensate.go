package service

import (
	"context"
	"fmt"
)

// undoAction 单个补偿动作，描述用于失败时的日志
type undoAction struct {
	describe string
	run      func(ctx context.Context) error
}

// undoStack 补偿动作栈
// 每个写操作成功后压入对应的撤销动作，主流程失败时逆序执行
// 撤销动作自身的失败只收集为警告，不再向上传播
type undoStack struct {
	actions []undoAction
}

func newUndoStack() *undoStack {
	return &undoStack{}
}

func (s *undoStack) Push(describe string, run func(ctx context.Context) error) {
	s.actions = append(s.actions, undoAction{describe: describe, run: run})
}

// Rollback 逆序执行全部补偿动作，返回失败警告列表
func (s *undoStack) Rollback(ctx context.Context) []string {
	var warnings []string
	for i := len(s.actions) - 1; i >= 0; i-- {
		action := s.actions[i]
		if err := action.run(ctx); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", action.describe, err))
		}
	}
	return warnings
}
