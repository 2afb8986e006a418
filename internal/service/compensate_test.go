package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUndoStackReverseOrder(t *testing.T) {
	var order []string
	undo := newUndoStack()
	undo.Push("第一步", func(ctx context.Context) error {
		order = append(order, "a")
		return nil
	})
	undo.Push("第二步", func(ctx context.Context) error {
		order = append(order, "b")
		return nil
	})
	undo.Push("第三步", func(ctx context.Context) error {
		order = append(order, "c")
		return nil
	})

	warnings := undo.Rollback(context.Background())
	if len(warnings) != 0 {
		t.Fatalf("不应产生警告: %v", warnings)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "b" || order[2] != "a" {
		t.Fatalf("补偿动作应逆序执行，得到 %v", order)
	}
}

func TestUndoStackCollectsWarnings(t *testing.T) {
	var ran []string
	undo := newUndoStack()
	undo.Push("删除对象", func(ctx context.Context) error {
		ran = append(ran, "object")
		return errors.New("存储不可用")
	})
	undo.Push("删除记录", func(ctx context.Context) error {
		ran = append(ran, "row")
		return nil
	})

	warnings := undo.Rollback(context.Background())
	// 单个补偿动作失败不应阻断后续动作
	if len(ran) != 2 {
		t.Fatalf("全部补偿动作都应执行，得到 %v", ran)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "删除对象") {
		t.Fatalf("警告应包含失败动作描述，得到 %v", warnings)
	}
}

func TestUndoStackEmpty(t *testing.T) {
	undo := newUndoStack()
	if warnings := undo.Rollback(context.Background()); warnings != nil {
		t.Fatalf("空栈回滚不应产生警告: %v", warnings)
	}
}
