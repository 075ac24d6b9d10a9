package session

import "errors"

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("会话不存在或已过期")

// 启动时必须写入会话的字段（缺失任何一个视为会话不完整，属 500 级错误）
var requiredFields = []string{
	"context_id",
	"context_label",
	"context_title",
	"user_id",
	"roles",
	"ext_content_return_url",
	"ext_content_return_types",
}

// Session LTI 启动会话
//
// 设计说明：
//   - 启动成功后原始启动参数逐字保留在 Values 中，
//     roles / ext_content_return_types 另以解析后的标签集合存放
//   - 启动之后只读；return-to-lms 完成时整体删除（Store.Delete）
//   - 不依赖进程内状态，序列化为 JSON 存入外部存储
type Session struct {
	ID                    string            `json:"id"`
	ContextID             string            `json:"context_id"`
	ContextLabel          string            `json:"context_label"`
	ContextTitle          string            `json:"context_title"`
	UserID                string            `json:"user_id"`
	Roles                 []string          `json:"roles"`
	ExtContentReturnURL   string            `json:"ext_content_return_url"`
	ExtContentReturnTypes []string          `json:"ext_content_return_types"`
	Values                map[string]string `json:"values"`
}

// HasRole 判断会话角色集合中是否包含指定角色
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole 判断会话角色集合与给定角色列表是否有交集
func (s *Session) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// HasReturnType 判断解析后的内容返回类型集合中是否包含指定类型
func (s *Session) HasReturnType(t string) bool {
	for _, rt := range s.ExtContentReturnTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Complete 校验启动必填键是否全部存在且非空
// 返回第一个缺失的键名；全部齐备时 ok=true
func (s *Session) Complete() (missing string, ok bool) {
	for _, f := range requiredFields {
		switch f {
		case "roles":
			if len(s.Roles) == 0 {
				return f, false
			}
		case "ext_content_return_types":
			if len(s.ExtContentReturnTypes) == 0 {
				return f, false
			}
		default:
			if s.Values[f] == "" {
				return f, false
			}
		}
	}
	return "", true
}
