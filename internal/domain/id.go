package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ParseID validates a document identifier: exactly 24 hex characters
// encoding a 12-byte object id. param names the request field in the error.
func ParseID(param, value string) (primitive.ObjectID, error) {
	if value == "" {
		return primitive.NilObjectID, InvalidIdentifier(param)
	}

	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, InvalidIdentifier(param)
	}

	return id, nil
}
