package service

// PageSize 每页文章数
const PageSize = 10

// PageWindow 分页计算结果
// Start/End 不做越界修正，切片时再截断
type PageWindow struct {
	CurrentPage int
	TotalPages  int
	Start       int
	End         int
	Pages       []int
}

// BuildPageWindow 由页码和总数计算分页窗口
func BuildPageWindow(page, totalCount int) PageWindow {
	totalPages := (totalCount + PageSize - 1) / PageSize
	start := (page - 1) * PageSize
	end := start + PageSize

	pages := make([]int, 0, totalPages)
	for i := 1; i <= totalPages; i++ {
		pages = append(pages, i)
	}

	return PageWindow{
		CurrentPage: page,
		TotalPages:  totalPages,
		Start:       start,
		End:         end,
		Pages:       pages,
	}
}

// clampSlice 按窗口截取，越界的页码得到空结果而不是panic
func clampSlice[T any](items []T, w PageWindow) []T {
	start, end := w.Start, w.End
	if start < 0 {
		start = 0
	}
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	if end < start {
		end = start
	}
	return items[start:end]
}
