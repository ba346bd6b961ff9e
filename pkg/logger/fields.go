package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldSlug 笔记 slug 字段
	FieldSlug = "slug"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldKey 存储键字段
	FieldKey = "key"

	// FieldPath 文件路径字段
	FieldPath = "path"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldCount 数量字段
	FieldCount = "count"

	// FieldSize 大小字段
	FieldSize = "size"

	// FieldStorage 存储类型字段
	FieldStorage = "storage"
)
