package dto

// ── 课程模块 DTO ──

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID           string  `json:"id"`
	ContextID    string  `json:"context_id"`
	ContextLabel string  `json:"context_label,omitempty"`
	ContextTitle string  `json:"context_title,omitempty"`
	PolicyID     *string `json:"policy_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// CourseDetailResponse 课程视图响应（含已选政策与教师标记）
type CourseDetailResponse struct {
	Course     CourseResponse  `json:"course"`
	Policy     *PolicyResponse `json:"policy,omitempty"`
	Instructor bool            `json:"instructor"`
}

// CourseEditResponse 课程编辑视图响应（含政策选择列表）
type CourseEditResponse struct {
	Course   CourseResponse   `json:"course"`
	Policy   *PolicyResponse  `json:"policy,omitempty"`
	Policies []PolicyResponse `json:"policies"`
}

// UpdateCourseRequest 设置课程政策请求
type UpdateCourseRequest struct {
	PolicyID string `json:"policy_id" binding:"required"`
}
