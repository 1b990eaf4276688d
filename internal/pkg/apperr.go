package pkg

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRegistered 重复报名，第二次调用直接拒绝而不是静默去重
	ErrAlreadyRegistered = errors.New("already registered for this event")
)

// ValidationError 缺少/非法的必填字段，对应 400
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q is required", e.Field)
}

func Invalid(field string) error {
	return &ValidationError{Field: field}
}

// NotFoundError 社团/活动/用户不存在，对应 404
type NotFoundError struct {
	Kind string
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func NotFound(kind string, id uint64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// DeniedError 鉴权拒绝，携带原因码，对应 403。拒绝是预期结果，
// 永远不会升级成服务端错误
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

func Denied(reason string) error {
	return &DeniedError{Reason: reason}
}

// ConsistencyError 双写只落了一半，对应 500，必须记录日志等待修复
type ConsistencyError struct {
	Kind   string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation on %s: %s", e.Kind, e.Detail)
}
