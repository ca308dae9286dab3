// Package audit records security-relevant actions (logins, code issuance,
// password changes, admin bootstrap) to an append-only table. Writes are best
// effort: a failed audit insert never fails the audited operation.
package audit

import (
	"context"

	"go.uber.org/zap"

	"kidsmin-portal/backend/internal/audit/domain"
	"kidsmin-portal/backend/internal/audit/repository"
)

type ctxKey int

const ipKey ctxKey = 0

// ContextWithIP attaches the client IP so handlers deep in the call chain can
// record it without threading it through every signature.
func ContextWithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey, ip)
}

func ipFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ipKey).(string); ok {
		return ip
	}
	return ""
}

// AuditLogger records actions. Implementations must never return delivery
// failures to the caller.
type AuditLogger interface {
	Record(ctx context.Context, actor, action, resource string)
}

// Logger writes audit entries through a repository, logging failures.
type Logger struct {
	repo   repository.Repository
	logger *zap.Logger
}

// NewLogger builds an audit logger over repo.
func NewLogger(repo repository.Repository, logger *zap.Logger) *Logger {
	return &Logger{repo: repo, logger: logger}
}

// Record appends an entry, picking the client IP off the context if present.
func (l *Logger) Record(ctx context.Context, actor, action, resource string) {
	entry := &domain.Entry{
		Actor:    actor,
		Action:   action,
		Resource: resource,
		IP:       ipFromContext(ctx),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.logger.Warn("audit write failed",
			zap.String("action", action),
			zap.String("actor", actor),
			zap.Error(err))
	}
}

// Nop is an AuditLogger that discards everything, for tests and tooling.
type Nop struct{}

func (Nop) Record(ctx context.Context, actor, action, resource string) {}
