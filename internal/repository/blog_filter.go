package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
)

// BlogFilter translates a BlogQuery into a Mongo filter:
//
//	{user: U, category: C}
//	+ $or [{title: /kw/i}, {description: /kw/i}]   when keywords are set
//	+ createdAt {$gte: S, $lte: E}                  for whichever bounds are set
//
// The keyword is escaped so it matches as a literal substring.
func BlogFilter(q domain.BlogQuery) bson.M {
	filter := bson.M{
		"user":     q.UserID,
		"category": q.CategoryID,
	}

	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	createdAt := bson.M{}
	if q.StartDate != nil {
		createdAt["$gte"] = *q.StartDate
	}
	if q.EndDate != nil {
		createdAt["$lte"] = *q.EndDate
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}

	return filter
}
