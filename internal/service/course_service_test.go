package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"academic-integrity/backend/internal/model"
	"academic-integrity/backend/internal/repository"
	"academic-integrity/backend/pkg/session"
)

// ── 测试辅助 ──

func setupTestCourseService() (CourseService, *mockCourseRepo, *mockPolicyRepo, *session.MemoryStore) {
	courseRepo := newMockCourseRepo()
	policyRepo := newMockPolicyRepo()
	repo := &repository.Repository{
		Course: courseRepo,
		Policy: policyRepo,
	}
	store := session.NewMemoryStore(4 * time.Hour)
	svc := NewCourseService(testConfig(), repo, store, zap.NewNop())
	return svc, courseRepo, policyRepo, store
}

func instructorSession() *session.Session {
	return &session.Session{
		ID:                    "sess-001",
		ContextID:             "ctx-001",
		ContextLabel:          "CS101",
		ContextTitle:          "Intro to Computer Science",
		UserID:                "user-001",
		Roles:                 []string{RoleInstructor},
		ExtContentReturnURL:   "https://lms.example.com/return",
		ExtContentReturnTypes: []string{ReturnTypeIframe},
		Values:                validLaunchParams(),
	}
}

// ── Get 测试 ──

func TestCourseService_Get_Success(t *testing.T) {
	svc, courseRepo, policyRepo, _ := setupTestCourseService()

	_ = policyRepo.Create(context.Background(), &model.Policy{Title: "诚信政策", Text: "不得抄袭"})
	policyID := "policy-001"
	_ = courseRepo.Create(context.Background(), &model.Course{ContextID: "ctx-001", PolicyID: &policyID})

	result, err := svc.Get(context.Background(), "course-001", instructorSession())
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.Course.ContextID != "ctx-001" {
		t.Errorf("期望 ContextID=ctx-001，实际=%s", result.Course.ContextID)
	}
	if result.Policy == nil || result.Policy.Title != "诚信政策" {
		t.Error("已选政策应内联在响应中")
	}
	if !result.Instructor {
		t.Error("教师会话应带 instructor 标记")
	}
}

func TestCourseService_Get_NoPolicy(t *testing.T) {
	svc, courseRepo, _, _ := setupTestCourseService()

	_ = courseRepo.Create(context.Background(), &model.Course{ContextID: "ctx-001"})

	sess := instructorSession()
	sess.Roles = []string{RoleLearner}

	result, err := svc.Get(context.Background(), "course-001", sess)
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.Policy != nil {
		t.Error("未选政策时 Policy 应为空")
	}
	if result.Instructor {
		t.Error("学习者会话不应带 instructor 标记")
	}
}

func TestCourseService_Get_NotFound(t *testing.T) {
	svc, _, _, _ := setupTestCourseService()

	_, err := svc.Get(context.Background(), "nonexistent", instructorSession())
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

// ── GetForEdit 测试 ──

func TestCourseService_GetForEdit_VisiblePolicies(t *testing.T) {
	svc, courseRepo, policyRepo, _ := setupTestCourseService()

	_ = courseRepo.Create(context.Background(), &model.Course{ContextID: "ctx-001"})
	// 公开政策：可见
	_ = policyRepo.Create(context.Background(), &model.Policy{Title: "公开政策", IsPublic: true, CreatorID: "someone-else"})
	// 本人创建：可见
	_ = policyRepo.Create(context.Background(), &model.Policy{Title: "自己的政策", CreatorID: "user-001"})
	// 他人私有：不可见
	_ = policyRepo.Create(context.Background(), &model.Policy{Title: "别人的政策", CreatorID: "someone-else", CreatorCourseID: "other-ctx"})

	result, err := svc.GetForEdit(context.Background(), "course-001", instructorSession())
	if err != nil {
		t.Fatalf("GetForEdit 应成功: %v", err)
	}
	if len(result.Policies) != 2 {
		t.Fatalf("期望 2 条可见政策，实际 %d", len(result.Policies))
	}
	if result.Policies[0].Title != "公开政策" || result.Policies[1].Title != "自己的政策" {
		t.Errorf("可见政策应按创建顺序排列，实际 %+v", result.Policies)
	}
}

// ── SetPolicy 测试 ──

func TestCourseService_SetPolicy_Success(t *testing.T) {
	svc, courseRepo, policyRepo, _ := setupTestCourseService()

	_ = courseRepo.Create(context.Background(), &model.Course{ContextID: "ctx-001"})
	_ = policyRepo.Create(context.Background(), &model.Policy{Title: "诚信政策", Text: "不得抄袭"})

	result, err := svc.SetPolicy(context.Background(), "course-001", "policy-001")
	if err != nil {
		t.Fatalf("SetPolicy 应成功: %v", err)
	}
	if result.PolicyID == nil || *result.PolicyID != "policy-001" {
		t.Error("课程应指向选定政策")
	}
}

func TestCourseService_SetPolicy_PolicyNotFound(t *testing.T) {
	svc, courseRepo, _, _ := setupTestCourseService()

	_ = courseRepo.Create(context.Background(), &model.Course{ContextID: "ctx-001"})

	_, err := svc.SetPolicy(context.Background(), "course-001", "nonexistent")
	if !errors.Is(err, ErrPolicyNotFound) {
		t.Errorf("期望 ErrPolicyNotFound，实际: %v", err)
	}

	// 失败不应留下部分写入
	course, _ := courseRepo.GetByID(context.Background(), "course-001")
	if course.PolicyID != nil {
		t.Error("政策不存在时课程不应被改动")
	}
}

func TestCourseService_SetPolicy_CourseNotFound(t *testing.T) {
	svc, _, policyRepo, _ := setupTestCourseService()

	_ = policyRepo.Create(context.Background(), &model.Policy{Title: "诚信政策"})

	_, err := svc.SetPolicy(context.Background(), "nonexistent", "policy-001")
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

// ── ReturnToLMS 测试 ──

func TestCourseService_ReturnToLMS_WithPolicy(t *testing.T) {
	svc, courseRepo, policyRepo, store := setupTestCourseService()

	_ = policyRepo.Create(context.Background(), &model.Policy{Title: "诚信政策"})
	policyID := "policy-001"
	_ = courseRepo.Create(context.Background(), &model.Course{ContextID: "ctx-001", PolicyID: &policyID})

	sess := instructorSession()
	_ = store.Save(context.Background(), sess)

	redirect, err := svc.ReturnToLMS(context.Background(), "course-001", sess)
	if err != nil {
		t.Fatalf("ReturnToLMS 应成功: %v", err)
	}

	if strings.Count(redirect, "?") != 1 {
		t.Errorf("重定向地址应只含一个 ?：%s", redirect)
	}
	parsed, err := url.Parse(redirect)
	if err != nil {
		t.Fatalf("重定向地址应可解析: %v", err)
	}
	q := parsed.Query()
	if q.Get("return_type") != "iframe" {
		t.Errorf("期望 return_type=iframe，实际=%s", q.Get("return_type"))
	}
	if q.Get("url") != "https://tool.example.com/api/v1/courses/course-001" {
		t.Errorf("期望 url 指向课程视图，实际=%s", q.Get("url"))
	}
	if q.Get("width") != "100%" || q.Get("height") != "300" {
		t.Errorf("期望 width=100%% height=300，实际 width=%s height=%s", q.Get("width"), q.Get("height"))
	}

	// 终结动作：会话被删除
	if _, err := store.Get(context.Background(), sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Error("return-to-lms 后会话应被删除")
	}
}

func TestCourseService_ReturnToLMS_NoPolicy(t *testing.T) {
	svc, courseRepo, _, store := setupTestCourseService()

	_ = courseRepo.Create(context.Background(), &model.Course{ContextID: "ctx-001"})

	sess := instructorSession()
	_ = store.Save(context.Background(), sess)

	redirect, err := svc.ReturnToLMS(context.Background(), "course-001", sess)
	if err != nil {
		t.Fatalf("ReturnToLMS 应成功: %v", err)
	}
	// 未选政策：不拼查询串，原样返回
	if redirect != "https://lms.example.com/return" {
		t.Errorf("未选政策应直接返回原始地址，实际=%s", redirect)
	}

	if _, err := store.Get(context.Background(), sess.ID); !errors.Is(err, session.ErrNotFound) {
		t.Error("未选政策的 return-to-lms 同样应删除会话")
	}
}

func TestCourseService_ReturnToLMS_CourseNotFound(t *testing.T) {
	svc, _, _, store := setupTestCourseService()

	sess := instructorSession()
	_ = store.Save(context.Background(), sess)

	_, err := svc.ReturnToLMS(context.Background(), "nonexistent", sess)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
	// 失败路径不应删除会话
	if _, err := store.Get(context.Background(), sess.ID); err != nil {
		t.Error("课程不存在时会话应保留")
	}
}
