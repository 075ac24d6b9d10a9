package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"academic-integrity/backend/internal/model"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	nextID  int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		m.nextID++
		course.CourseID = fmt.Sprintf("course-%03d", m.nextID)
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByContextID(_ context.Context, contextID string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.ContextID == contextID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

// ── Mock PolicyRepository ──

type mockPolicyRepo struct {
	policies map[string]*model.Policy
	order    []string
	nextID   int
}

func newMockPolicyRepo() *mockPolicyRepo {
	return &mockPolicyRepo{policies: make(map[string]*model.Policy)}
}

func (m *mockPolicyRepo) Create(_ context.Context, policy *model.Policy) error {
	if policy.PolicyID == "" {
		m.nextID++
		policy.PolicyID = fmt.Sprintf("policy-%03d", m.nextID)
	}
	m.policies[policy.PolicyID] = policy
	m.order = append(m.order, policy.PolicyID)
	return nil
}

func (m *mockPolicyRepo) GetByID(_ context.Context, id string) (*model.Policy, error) {
	if p, ok := m.policies[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPolicyRepo) Update(_ context.Context, policy *model.Policy) error {
	m.policies[policy.PolicyID] = policy
	return nil
}

// ListVisible 与 SQL 实现保持同一谓词：公开，或创建者 / 创建课程匹配
func (m *mockPolicyRepo) ListVisible(_ context.Context, userID, contextLabel, contextID string) ([]model.Policy, error) {
	var result []model.Policy
	for _, id := range m.order {
		p := m.policies[id]
		if p.IsPublic || p.CreatorID == userID || p.CreatorCourseLabel == contextLabel || p.CreatorCourseID == contextID {
			result = append(result, *p)
		}
	}
	return result, nil
}
