package handler

import (
	"academic-integrity/backend/config"
	"academic-integrity/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	LTI    *LTIHandler
	Course *CourseHandler
	Policy *PolicyHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		LTI:    NewLTIHandler(cfg, svc.LTI),
		Course: NewCourseHandler(cfg, svc.Course),
		Policy: NewPolicyHandler(cfg, svc.Policy),
		Export: NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
