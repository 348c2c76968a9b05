package memory

import (
	"context"

	"blogapi/internal/domain"
)

type AuditLogRepository struct {
	store *Store
}

func (r *AuditLogRepository) Create(_ context.Context, log *domain.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	log.ID = newID(log.ID)
	log.CreatedAt = r.store.now()

	cp := *log
	r.store.auditLogs = append(r.store.auditLogs, &cp)
	return nil
}

// Find returns logs newest first.
func (r *AuditLogRepository) Find(_ context.Context, filter domain.AuditLogFilter, limit, offset int) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]*domain.AuditLog, 0)
	for i := len(r.store.auditLogs) - 1; i >= 0; i-- {
		l := r.store.auditLogs[i]
		if filter.EntityType != "" && l.EntityType != filter.EntityType {
			continue
		}
		if !filter.EntityID.IsZero() && l.EntityID != filter.EntityID {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		if limit > 0 && len(logs) == limit {
			break
		}
		cp := *l
		logs = append(logs, &cp)
	}
	return logs, nil
}
