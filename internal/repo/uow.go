package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTxActive      = errors.New("transaction already started")
	ErrNoTransaction = errors.New("no active transaction")
	ErrClosed        = errors.New("unit of work closed")
)

var uowSaves = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "uow_saves_total", Help: "Unit of work save attempts by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(uowSaves) }

type stagedOp struct {
	op     string
	entity string
	run    func(tx *gorm.DB) (int64, error)
}

// UnitOfWork 绑定一个会话：仓储的写操作先暂存，Save 时在同一事务里按顺序落库。
// 不是并发安全的，一个请求一个。
type UnitOfWork struct {
	ctx    context.Context
	db     *gorm.DB
	tx     *gorm.DB
	log    *zap.Logger
	ops    []stagedOp
	closed bool
}

func NewUnitOfWork(ctx context.Context, db *gorm.DB, log *zap.Logger) *UnitOfWork {
	if log == nil {
		log = zap.NewNop()
	}
	return &UnitOfWork{ctx: ctx, db: db, log: log}
}

// Factory 按请求创建 UnitOfWork
type Factory struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (f *Factory) New(ctx context.Context) *UnitOfWork { return NewUnitOfWork(ctx, f.DB, f.Log) }

func (u *UnitOfWork) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db.WithContext(u.ctx)
}

func (u *UnitOfWork) stage(op stagedOp) { u.ops = append(u.ops, op) }

// Pending 尚未落库的操作数
func (u *UnitOfWork) Pending() int { return len(u.ops) }

func (u *UnitOfWork) InTransaction() bool { return u.tx != nil }

// Save 把暂存操作在一个原子边界内写入，返回影响行数。
// 已有显式事务时使用 savepoint，失败不会留下本批次的部分写入。
func (u *UnitOfWork) Save() (int64, error) {
	if u.closed {
		return 0, ErrClosed
	}
	if len(u.ops) == 0 {
		return 0, nil
	}
	ops := u.ops
	u.ops = nil

	var total int64
	err := u.session().Transaction(func(tx *gorm.DB) error {
		for _, o := range ops {
			n, err := o.run(tx)
			if err != nil {
				return wrap(o.op, o.entity, err)
			}
			total += n
		}
		return nil
	})
	if err != nil {
		uowSaves.WithLabelValues("error").Inc()
		return 0, wrap("save", "unit of work", err)
	}
	uowSaves.WithLabelValues("ok").Inc()
	return total, nil
}

func (u *UnitOfWork) Begin() error {
	if u.closed {
		return ErrClosed
	}
	if u.tx != nil {
		return ErrTxActive
	}
	tx := u.db.WithContext(u.ctx).Begin()
	if tx.Error != nil {
		return wrap("begin", "transaction", tx.Error)
	}
	u.tx = tx
	return nil
}

// Commit 先 Save 再提交；任一步失败都会先回滚再返回错误
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	if _, err := u.Save(); err != nil {
		u.rollbackQuietly()
		return err
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit().Error; err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			u.log.Warn("rollback after failed commit", zap.Error(rbErr))
		}
		return wrap("commit", "transaction", err)
	}
	return nil
}

func (u *UnitOfWork) Rollback() error {
	u.ops = nil
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return wrap("rollback", "transaction", err)
	}
	return nil
}

func (u *UnitOfWork) rollbackQuietly() {
	if err := u.Rollback(); err != nil {
		u.log.Warn("unit of work rollback", zap.Error(err))
	}
}

// Close 释放会话：回滚未提交事务、丢弃暂存操作。错误只记日志。
func (u *UnitOfWork) Close() {
	if u.closed {
		return
	}
	if n := len(u.ops); n > 0 {
		u.log.Debug("unit of work closed with unsaved changes", zap.Int("ops", n))
	}
	u.rollbackQuietly()
	u.closed = true
}
