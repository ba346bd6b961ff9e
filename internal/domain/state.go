package domain

// NotesState holds the two ordered collections
// NotesState 持有两个有序集合
type NotesState struct {
	Active  []*Note
	Archive []*Note
}

// Clone deep-copies both collections
// Clone 深拷贝两个集合
func (s NotesState) Clone() NotesState {
	return NotesState{Active: CloneNotes(s.Active), Archive: CloneNotes(s.Archive)}
}

// CloneNotes 深拷贝笔记列表，nil 返回空切片
func CloneNotes(list []*Note) []*Note {
	out := make([]*Note, 0, len(list))
	for _, n := range list {
		out = append(out, n.Clone())
	}
	return out
}

// IndexByID 按 id 线性查找，未找到返回 -1
func IndexByID(list []*Note, id int64) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// IndexBySlug 按 slug 线性查找第一个匹配，未找到返回 -1
func IndexBySlug(list []*Note, slug string) int {
	for i, n := range list {
		if n.Slug == slug {
			return i
		}
	}
	return -1
}

// UpsertByID returns a new list with note replacing the entry of the same id in place,
// or appended when the id is new. The input list is not modified.
// UpsertByID 返回新列表：同 id 原位替换，否则追加；不修改输入
func UpsertByID(list []*Note, note *Note) ([]*Note, bool) {
	out := make([]*Note, len(list), len(list)+1)
	copy(out, list)
	if i := IndexByID(out, note.ID); i >= 0 {
		out[i] = note
		return out, true
	}
	return append(out, note), false
}

// RemoveBySlug returns a new list without the first note matching slug, and that note.
// RemoveBySlug 返回移除第一个匹配 slug 后的新列表以及被移除的笔记
func RemoveBySlug(list []*Note, slug string) ([]*Note, *Note) {
	i := IndexBySlug(list, slug)
	if i < 0 {
		return list, nil
	}
	out := make([]*Note, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out, list[i]
}

// MaxID 两个集合中的最大 id
func (s NotesState) MaxID() int64 {
	var max int64
	for _, list := range [][]*Note{s.Active, s.Archive} {
		for _, n := range list {
			if n.ID > max {
				max = n.ID
			}
		}
	}
	return max
}
