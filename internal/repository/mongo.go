package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"blogapi/pkg/metrics"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	blogsCollection      = "blogs"
	auditLogsCollection  = "audit_logs"
)

// record reports a storage call to metrics. An empty single-document result
// is an ordinary outcome, not an error.
func record(operation, collection string, start time.Time, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = nil
	}
	metrics.RecordDatabaseOperation(operation, collection, start, err)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
