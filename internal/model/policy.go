package model

// Policy 学术诚信政策表 — 对应 policies
// creator_course_id 与 creator_course_label 记录的是同一门创建课程的两种标识，
// 可见性过滤需要按其中任意一种匹配
type Policy struct {
	PolicyID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"policy_id"`
	Title              string `gorm:"type:varchar(255);not null;default:''"          json:"title"`
	Text               string `gorm:"type:text;not null;default:''"                  json:"text"`
	IsPublic           bool   `gorm:"not null;default:false"                         json:"is_public"`
	CreatorID          string `gorm:"type:varchar(255);not null;default:''"          json:"creator_id"`
	CreatorCourseID    string `gorm:"type:varchar(255);not null;default:''"          json:"creator_course_id"`
	CreatorCourseLabel string `gorm:"type:varchar(255);not null;default:''"          json:"creator_course_label"`
	BaseModel
}

// TableName 指定表名
func (Policy) TableName() string { return "policies" }
