package dto

// ── 政策模块 DTO ──

// PolicyResponse 政策信息响应
type PolicyResponse struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Text               string `json:"text"`
	IsPublic           bool   `json:"is_public"`
	CreatorID          string `json:"creator_id"`
	CreatorCourseID    string `json:"creator_course_id"`
	CreatorCourseLabel string `json:"creator_course_label"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// SavePolicyRequest 创建 / 更新政策请求
// title 与 text 的必填校验在 Service 层做，以便与课程更新的 400 语义区分
type SavePolicyRequest struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	IsPublic bool   `json:"is_public"`
}
