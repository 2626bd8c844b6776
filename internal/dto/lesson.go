package dto

// ── 课程模块 DTO ──

// CreateLessonRequest 创建课程请求
type CreateLessonRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"omitempty,max=512"`
	Color       string `json:"color"       binding:"omitempty,hexcolor"`
}

// PatchLessonNameRequest 修改课程名称请求
type PatchLessonNameRequest struct {
	ID   int64  `json:"id"   binding:"required,min=1"`
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// PatchLessonDescriptionRequest 修改课程描述请求
type PatchLessonDescriptionRequest struct {
	ID          int64  `json:"id"          binding:"required,min=1"`
	Description string `json:"description" binding:"max=512"`
}

// PatchLessonColorRequest 修改课程颜色请求
type PatchLessonColorRequest struct {
	ID    int64  `json:"id"    binding:"required,min=1"`
	Color string `json:"color" binding:"required,hexcolor"`
}

// LessonResponse 课程信息响应
type LessonResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ── 课程类型 DTO ──

// CreateLessonTypeRequest 创建课程类型请求
type CreateLessonTypeRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"omitempty,max=512"`
}

// PatchLessonTypeNameRequest 修改课程类型名称请求
type PatchLessonTypeNameRequest struct {
	ID   int64  `json:"id"   binding:"required,min=1"`
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// PatchLessonTypeDescriptionRequest 修改课程类型描述请求
type PatchLessonTypeDescriptionRequest struct {
	ID          int64  `json:"id"          binding:"required,min=1"`
	Description string `json:"description" binding:"max=512"`
}

// LessonTypeResponse 课程类型信息响应
type LessonTypeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LessonGroupLinkResponse 课程-班组关联行响应
type LessonGroupLinkResponse struct {
	GroupID      int64 `json:"group_id"`
	LessonID     int64 `json:"lesson_id"`
	LessonTypeID int64 `json:"lesson_type_id"`
	LessonArg    int   `json:"lesson_arg"`
}
