package model

// Course 课程表 — 对应 courses
// 首次从某个未见过的 context_id 启动时创建；之后只会被设置 policy_id，永不删除
type Course struct {
	CourseID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	ContextID    string  `gorm:"type:varchar(255);uniqueIndex"                  json:"context_id"`
	ContextLabel string  `gorm:"type:varchar(255);not null;default:''"          json:"context_label"`
	ContextTitle string  `gorm:"type:varchar(255);not null;default:''"          json:"context_title"`
	PolicyID     *string `gorm:"type:uuid"                                      json:"policy_id,omitempty"`
	BaseModel

	// 关联（0..1，无级联）
	Policy *Policy `gorm:"foreignKey:PolicyID;references:PolicyID" json:"policy,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/course.go
