package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"academic-integrity/backend/config"
	"academic-integrity/backend/internal/repository"
	"academic-integrity/backend/pkg/session"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:    8080,
			BaseURL: "https://tool.example.com",
		},
		Session: config.SessionConfig{
			Secret: "test-secret-key-for-unit-testing-2026",
			TTL:    4 * time.Hour,
			Cookie: config.CookieConfig{Name: "integrity_session", Secure: true},
		},
		LTI: config.LTIConfig{
			Title:           "Academic Integrity Policy",
			Description:     "Attach an academic integrity policy to a course",
			IconURL:         "https://tool.example.com/icon.png",
			ButtonText:      "Integrity Policy",
			SelectionWidth:  500,
			SelectionHeight: 300,
		},
	}
}

func setupTestLTIService() (LTIService, *mockCourseRepo, *session.MemoryStore) {
	courseRepo := newMockCourseRepo()
	repo := &repository.Repository{
		Course: courseRepo,
		Policy: newMockPolicyRepo(),
	}
	store := session.NewMemoryStore(4 * time.Hour)
	tokens := session.NewManager(&testConfig().Session)
	svc := NewLTIService(testConfig(), repo, store, tokens, zap.NewNop())
	return svc, courseRepo, store
}

// ── Launch 测试 ──

func TestLTIService_Launch_Success(t *testing.T) {
	svc, courseRepo, store := setupTestLTIService()

	params := validLaunchParams()
	params["roles"] = "Instructor,urn:lti:instrole:ims/lis/Administrator"
	params["custom_extra"] = "keep-me"

	result, err := svc.Launch(context.Background(), params)
	if err != nil {
		t.Fatalf("Launch 应成功: %v", err)
	}

	// 课程按 context_id 创建，且只填 context_id
	course, err := courseRepo.GetByContextID(context.Background(), "ctx-001")
	if err != nil {
		t.Fatalf("启动后课程应存在: %v", err)
	}
	if course.ContextLabel != "" || course.ContextTitle != "" {
		t.Error("新建课程应只填 context_id")
	}
	if result.CourseID != course.CourseID {
		t.Errorf("结果课程 ID 期望=%s，实际=%s", course.CourseID, result.CourseID)
	}

	// 会话写入服务端存储
	sess, err := store.Get(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("启动后会话应存在: %v", err)
	}
	if sess.ContextID != "ctx-001" || sess.UserID != "user-001" {
		t.Error("会话应带启动上下文")
	}
	if !sess.HasRole(RoleInstructor) || !sess.HasRole(RoleAdministrator) {
		t.Errorf("会话角色应为解析后的集合，实际 %v", sess.Roles)
	}
	if !sess.HasReturnType(ReturnTypeIframe) {
		t.Errorf("会话返回类型应含 iframe，实际 %v", sess.ExtContentReturnTypes)
	}
	// 原始参数逐字保留
	if sess.Values["custom_extra"] != "keep-me" {
		t.Error("无法识别的启动参数应逐字保留在会话中")
	}
	if sess.Values["roles"] != "Instructor,urn:lti:instrole:ims/lis/Administrator" {
		t.Error("roles 原始值应逐字保留")
	}

	if result.Token == "" {
		t.Error("启动结果应带会话令牌")
	}
	want := "https://tool.example.com/api/v1/courses/" + course.CourseID
	if result.RedirectURL != want {
		t.Errorf("重定向地址期望=%s，实际=%s", want, result.RedirectURL)
	}
}

func TestLTIService_Launch_ReusesExistingCourse(t *testing.T) {
	svc, courseRepo, _ := setupTestLTIService()

	first, err := svc.Launch(context.Background(), validLaunchParams())
	if err != nil {
		t.Fatalf("首次 Launch 应成功: %v", err)
	}
	second, err := svc.Launch(context.Background(), validLaunchParams())
	if err != nil {
		t.Fatalf("二次 Launch 应成功: %v", err)
	}

	if first.CourseID != second.CourseID {
		t.Error("相同 context_id 的二次启动应复用课程")
	}
	if len(courseRepo.courses) != 1 {
		t.Errorf("期望只有 1 门课程，实际 %d", len(courseRepo.courses))
	}
}

func TestLTIService_Launch_BadInputNoSideEffects(t *testing.T) {
	svc, courseRepo, _ := setupTestLTIService()

	params := validLaunchParams()
	delete(params, "roles")

	_, err := svc.Launch(context.Background(), params)
	var badInput *BadInputError
	if !errors.As(err, &badInput) {
		t.Fatalf("期望 BadInputError，实际: %v", err)
	}
	if len(courseRepo.courses) != 0 {
		t.Error("校验失败的启动不应创建课程")
	}
}

// ── ServiceDescriptor 测试 ──

func TestLTIService_ServiceDescriptor(t *testing.T) {
	svc, _, _ := setupTestLTIService()

	d := svc.ServiceDescriptor("https", "tool.example.com:8443")

	if d.Title != "Academic Integrity Policy" {
		t.Errorf("期望标题来自配置，实际=%s", d.Title)
	}
	if d.LaunchURL != "https://tool.example.com:8443/lti/launch" {
		t.Errorf("启动地址期望带端口，实际=%s", d.LaunchURL)
	}
	if d.Extensions.Platform != "canvas.instructure.com" {
		t.Errorf("期望 platform=canvas.instructure.com，实际=%s", d.Extensions.Platform)
	}

	props := map[string]string{}
	for _, p := range d.Extensions.Properties {
		props[p.Name] = p.Value
	}
	// domain 只取主机名，不含端口
	if props["domain"] != "tool.example.com" {
		t.Errorf("期望 domain 不含端口，实际=%s", props["domain"])
	}
	if props["privacy_level"] != "anonymous" {
		t.Errorf("期望 privacy_level=anonymous，实际=%s", props["privacy_level"])
	}

	if len(d.Extensions.Options) != 1 || d.Extensions.Options[0].Name != "editor_button" {
		t.Fatalf("期望单个 editor_button 选项组，实际 %+v", d.Extensions.Options)
	}
	button := map[string]string{}
	for _, p := range d.Extensions.Options[0].Properties {
		button[p.Name] = p.Value
	}
	if button["url"] != d.LaunchURL {
		t.Error("editor_button 的 url 应指向启动地址")
	}
	if button["selection_width"] != "500" || button["selection_height"] != "300" {
		t.Errorf("选择框尺寸应来自配置，实际 width=%s height=%s", button["selection_width"], button["selection_height"])
	}
	if button["enabled"] != "true" {
		t.Error("editor_button 应为 enabled")
	}
}
