package domain

// CategorySummary per-category note counts
// CategorySummary 分类统计
type CategorySummary struct {
	Category string
	Active   int
	Archived int
}

// Summarize counts notes per category. Configured categories come first in order,
// categories found only in stored notes follow in order of first appearance.
// Summarize 统计各分类笔记数量，配置的分类按顺序在前，仅存在于数据中的分类按首次出现顺序追加
func Summarize(state NotesState, categories []string) []CategorySummary {
	index := make(map[string]int, len(categories))
	out := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		if _, ok := index[c]; ok {
			continue
		}
		index[c] = len(out)
		out = append(out, CategorySummary{Category: c})
	}

	row := func(c string) *CategorySummary {
		i, ok := index[c]
		if !ok {
			i = len(out)
			index[c] = i
			out = append(out, CategorySummary{Category: c})
		}
		return &out[i]
	}

	for _, n := range state.Active {
		row(n.Category).Active++
	}
	for _, n := range state.Archive {
		row(n.Category).Archived++
	}
	return out
}
