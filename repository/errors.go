package repository

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrConflict 违反唯一约束
	ErrConflict = errors.New("记录已存在")
	// ErrInvalidReference 外键引用的记录不存在，或记录仍被其他数据引用
	ErrInvalidReference = errors.New("关联记录无效")
	// ErrValidation 数据不满足约束
	ErrValidation = errors.New("数据校验失败")
	// ErrInUse 记录仍在使用中，不能删除
	ErrInUse = errors.New("记录仍在使用中")
)

// MySQL 错误码
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlColumnCannotNull = 1048
)

// translate 将 gorm / MySQL 错误转换为仓储层的类型化错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: %s", ErrConflict, me.Message)
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return fmt.Errorf("%w: %s", ErrInvalidReference, me.Message)
		case mysqlColumnCannotNull:
			return fmt.Errorf("%w: %s", ErrValidation, me.Message)
		}
	}
	return err
}

// Validation 构造校验错误
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
