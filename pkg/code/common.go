package code

var (
	Success          = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate    = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate    = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete    = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessArchive   = NewSuss(5, lang{en: "Archived successfully", zh_cn: "归档成功"})
	SuccessUnarchive = NewSuss(6, lang{en: "Restored successfully", zh_cn: "已恢复"})

	Failed               = NewError(400, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal  = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorInvalidParams   = NewError(501, lang{en: "Invalid parameters", zh_cn: "参数验证失败"})
	ErrorNotFoundAPI     = NewError(502, lang{en: "API not found", zh_cn: "找不到接口"})
	ErrorTooManyRequests = NewError(503, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorDBQuery         = NewError(504, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorRequestTimeout  = NewError(505, lang{en: "Request timeout", zh_cn: "请求超时"})

	ErrorNoteNotFound        = NewError(600, lang{en: "No matches found for the note", zh_cn: "找不到对应的笔记"})
	ErrorNoteTitleInvalid    = NewError(601, lang{en: "Invalid title/content", zh_cn: "标题或内容无效"})
	ErrorNoteSlugExist       = NewError(602, lang{en: "A note with the same title already exists", zh_cn: "已存在同名笔记"})
	ErrorNoteCategoryInvalid = NewError(603, lang{en: "Invalid note category", zh_cn: "笔记分类无效"})
	ErrorNoteSaveFailed      = NewError(604, lang{en: "Failed to save notes", zh_cn: "笔记保存失败"})
	ErrorNoteIDArchived      = NewError(605, lang{en: "The id belongs to an archived note", zh_cn: "该 id 属于已归档的笔记"})

	ErrorInvalidStorageType = NewError(700, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"})
	ErrorStorageDisabled    = NewError(701, lang{en: "Storage is disabled", zh_cn: "存储未启用"})
	ErrorBackupDisabled     = NewError(702, lang{en: "Backup is disabled", zh_cn: "备份未启用"})
	ErrorBackupFailed       = NewError(703, lang{en: "Backup failed", zh_cn: "备份失败"})
)
