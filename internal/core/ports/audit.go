package ports

import (
	"context"
	"time"
)

// Audit event kinds recorded by the service.
const (
	AuditLoginSucceeded = "login_succeeded"
	AuditLoginFailed    = "login_failed"
	AuditUserRegistered = "user_registered"
	AuditUserCreated    = "user_created"
	AuditUserUpdated    = "user_updated"
	AuditUserDeleted    = "user_deleted"
)

// AuditEntry describes one security-relevant event. Subject is the username
// the event concerns.
type AuditEntry struct {
	Subject   string
	Kind      string
	Detail    string
	Timestamp time.Time
}

// AuditRecorder persists audit entries. Recording is best effort; failures
// are logged and never surfaced to the request that triggered the event.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditSink accepts entries for asynchronous recording.
type AuditSink interface {
	Enqueue(entry AuditEntry)
}
