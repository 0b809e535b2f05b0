package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDataAccess 所有存储层失败都能 errors.Is 到它
var ErrDataAccess = errors.New("data access failure")

type DataAccessError struct {
	Op     string
	Entity string
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func (e *DataAccessError) Is(target error) bool { return target == ErrDataAccess }

func wrap(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Op: op, Entity: entity, Err: err}
}

// IsConstraint 唯一键或外键冲突（需开启 gorm TranslateError）
func IsConstraint(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated)
}
