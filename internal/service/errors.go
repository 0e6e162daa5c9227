package service

import (
	"errors"

	"gorm.io/gorm"
)

// 业务错误集合，全部可恢复、面向用户；handler 层映射为 HTTP 状态码
var (
	ErrDuplicateIdentity = errors.New("username or email already taken")
	ErrDuplicateEdge     = errors.New("follow or request already exists")
	ErrNotFound          = errors.New("not found")
	ErrSelfLikeForbidden = errors.New("cannot like your own message")
	ErrUnauthorized      = errors.New("access unauthorized")
	ErrNotAuthenticated  = errors.New("invalid credentials")
	ErrInvalidInput      = errors.New("invalid input")
)

// translateDuplicate 把唯一索引冲突（并发写入时兜底触发）翻译成业务冲突错误
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEdge
	}
	return err
}
