package middleware

import (
	"context"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	auditCreatedBy = "CreatedBy"
	auditUpdatedBy = "UpdatedBy"
)

// ==================== 操作人 ====================

type actorKey struct{}

// Actor 后台操作人，写入 created_by / updated_by
type Actor struct {
	UserID   int64
	Username string
	Role     string
}

// WithActor 注入操作人
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom 未注入时 ok 为 false
func ActorFrom(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok && actor.UserID > 0
}

// AuditContext 后台账号写入 request context，顾客请求不记录
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := GetUserClaims(c); claims != nil && claims.Kind == KindStaff && claims.UserID > 0 {
			ctx := WithActor(c.Request.Context(), Actor{
				UserID:   claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
			})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// ==================== GORM 回调 ====================

// RegisterAuditCallbacks 新建时补齐 CreatedBy，新建和更新都覆盖 UpdatedBy
func RegisterAuditCallbacks(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("audit:create", auditCreate); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").Register("audit:update", auditUpdate)
}

func auditCreate(tx *gorm.DB) {
	actor, ok := ActorFrom(tx.Statement.Context)
	if !ok || tx.Statement.Schema == nil {
		return
	}
	if _, isMap := tx.Statement.Dest.(map[string]interface{}); isMap {
		setColumn(tx, auditCreatedBy, actor.UserID)
		setColumn(tx, auditUpdatedBy, actor.UserID)
		return
	}

	created := tx.Statement.Schema.LookUpField(auditCreatedBy)
	updated := tx.Statement.Schema.LookUpField(auditUpdatedBy)
	stamp := func(rv reflect.Value) {
		for rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return
		}
		// 服务层显式指定的创建人保留
		if created != nil {
			if _, zero := created.ValueOf(tx.Statement.Context, rv); zero {
				tx.AddError(created.Set(tx.Statement.Context, rv, actor.UserID))
			}
		}
		if updated != nil {
			tx.AddError(updated.Set(tx.Statement.Context, rv, actor.UserID))
		}
	}

	switch rv := tx.Statement.ReflectValue; rv.Kind() {
	case reflect.Struct:
		stamp(rv)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			stamp(rv.Index(i))
		}
	}
}

// auditUpdate Save、Updates(struct)、Updates(map)、Update(col, v) 均经由 SetColumn
func auditUpdate(tx *gorm.DB) {
	actor, ok := ActorFrom(tx.Statement.Context)
	if !ok || tx.Statement.Schema == nil {
		return
	}
	setColumn(tx, auditUpdatedBy, actor.UserID)
}

func setColumn(tx *gorm.DB, name string, value int64) {
	field := tx.Statement.Schema.LookUpField(name)
	if field == nil || field.DBName == "" {
		return
	}
	if m, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		delete(m, name)
		m[field.DBName] = value
		return
	}
	tx.Statement.SetColumn(name, value, true)
}
