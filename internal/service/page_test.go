package service

import "testing"

func TestBuildPageWindowEmpty(t *testing.T) {
	w := BuildPageWindow(1, 0)
	if w.TotalPages != 0 {
		t.Fatalf("总页数应为0，得到 %d", w.TotalPages)
	}
	if w.Start != 0 || w.End != PageSize {
		t.Fatalf("窗口应为 [0, %d)，得到 [%d, %d)", PageSize, w.Start, w.End)
	}
	if len(w.Pages) != 0 {
		t.Fatalf("页码列表应为空，得到 %v", w.Pages)
	}
}

func TestBuildPageWindowSecondPage(t *testing.T) {
	w := BuildPageWindow(2, 12)
	if w.Start != 10 || w.End != 20 {
		t.Fatalf("窗口应为 [10, 20)，得到 [%d, %d)", w.Start, w.End)
	}
	if w.TotalPages != 2 {
		t.Fatalf("总页数应为2，得到 %d", w.TotalPages)
	}
	if len(w.Pages) != 2 || w.Pages[0] != 1 || w.Pages[1] != 2 {
		t.Fatalf("页码列表应为 [1 2]，得到 %v", w.Pages)
	}
}

func TestBuildPageWindowExactMultiple(t *testing.T) {
	w := BuildPageWindow(1, 20)
	if w.TotalPages != 2 {
		t.Fatalf("总页数应为2，得到 %d", w.TotalPages)
	}
}

func TestClampSliceOutOfRange(t *testing.T) {
	items := []int{1, 2, 3}
	// 越界页码得到空结果而不是panic
	got := clampSlice(items, BuildPageWindow(5, len(items)))
	if len(got) != 0 {
		t.Fatalf("越界页应返回空切片，得到 %v", got)
	}

	got = clampSlice(items, BuildPageWindow(1, len(items)))
	if len(got) != 3 {
		t.Fatalf("首页应返回全部元素，得到 %v", got)
	}
}
