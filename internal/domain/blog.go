package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Blog struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description" bson:"description"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Category    primitive.ObjectID `json:"category" bson:"category"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type BlogInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// BlogPatch holds the fields present in an update request. Slug is derived
// from Title by the service and never read from the client.
type BlogPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Slug        *string `json:"-"`
}

func (p BlogPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}

// BlogKey addresses a single blog. Category is optional; a zero value means
// the lookup is scoped by owner only.
type BlogKey struct {
	ID       primitive.ObjectID
	User     primitive.ObjectID
	Category primitive.ObjectID
}

// BlogQueryParams are the optional, unparsed listing parameters.
type BlogQueryParams struct {
	Keywords  string
	StartDate string
	EndDate   string
	Page      string
	Limit     string
}

// BlogQuery selects the blogs of one user in one category, optionally
// narrowed by a keyword and an inclusive creation date range.
type BlogQuery struct {
	UserID     primitive.ObjectID
	CategoryID primitive.ObjectID
	Keywords   string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

func NewBlogQuery(userID, categoryID primitive.ObjectID, params BlogQueryParams) (BlogQuery, error) {
	q := BlogQuery{
		UserID:     userID,
		CategoryID: categoryID,
		Keywords:   strings.TrimSpace(params.Keywords),
		Page:       1,
		Limit:      DefaultPageSize,
	}

	var err error
	if q.StartDate, err = ParseDate("startDate", params.StartDate); err != nil {
		return BlogQuery{}, err
	}
	if q.EndDate, err = ParseDate("endDate", params.EndDate); err != nil {
		return BlogQuery{}, err
	}
	if q.StartDate != nil && q.EndDate != nil && q.StartDate.After(*q.EndDate) {
		return BlogQuery{}, Validation("startDate must not be after endDate.")
	}

	if params.Page != "" {
		page, err := strconv.Atoi(params.Page)
		if err != nil || page < 1 {
			return BlogQuery{}, Validation("page must be a positive integer.")
		}
		q.Page = page
	}
	if params.Limit != "" {
		limit, err := strconv.Atoi(params.Limit)
		if err != nil || limit < 1 || limit > MaxPageSize {
			return BlogQuery{}, Validation(fmt.Sprintf("limit must be between 1 and %d.", MaxPageSize))
		}
		q.Limit = limit
	}

	if _, err := PageOffset(q.Page, q.Limit); err != nil {
		return BlogQuery{}, err
	}

	return q, nil
}

// PageOffset returns how many records precede page when each page holds
// limit records. It fails when the offset does not fit in an int.
func PageOffset(page, limit int) (int, error) {
	if page < 1 || limit < 1 {
		return 0, Validation("page and limit must be positive integers.")
	}
	if page-1 > math.MaxInt/limit {
		return 0, Validation("page is too large.")
	}
	return (page - 1) * limit, nil
}

// Skip is the number of matches before the requested page. A query that
// bypassed NewBlogQuery with an out-of-range page skips everything.
func (q BlogQuery) Skip() int64 {
	if q.Page <= 1 {
		return 0
	}
	offset, err := PageOffset(q.Page, q.Limit)
	if err != nil {
		return math.MaxInt64
	}
	return int64(offset)
}

// Matches reports whether b satisfies the query predicate. Pagination is
// not part of the predicate.
func (q BlogQuery) Matches(b *Blog) bool {
	if b.User != q.UserID || b.Category != q.CategoryID {
		return false
	}

	if q.Keywords != "" {
		kw := strings.ToLower(q.Keywords)
		if !strings.Contains(strings.ToLower(b.Title), kw) &&
			!strings.Contains(strings.ToLower(b.Description), kw) {
			return false
		}
	}

	if q.StartDate != nil && b.CreatedAt.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && b.CreatedAt.After(*q.EndDate) {
		return false
	}

	return true
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// ParseDate accepts a calendar date (midnight UTC) or an RFC 3339
// timestamp. An empty value yields nil.
func ParseDate(param, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, Validation(fmt.Sprintf("Invalid %s: expected YYYY-MM-DD or RFC 3339 timestamp.", param))
}

type BlogRepository interface {
	Find(ctx context.Context, query BlogQuery) ([]*Blog, error)
	FindOwned(ctx context.Context, key BlogKey) (*Blog, error)
	Create(ctx context.Context, blog *Blog) error
	UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, patch BlogPatch) (*Blog, error)
	DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (*Blog, error)
}

type BlogService interface {
	ListBlogs(ctx context.Context, query BlogQuery) ([]*Blog, error)
	GetBlog(ctx context.Context, key BlogKey) (*Blog, error)
	CreateBlog(ctx context.Context, userID, categoryID primitive.ObjectID, input BlogInput) (*Blog, error)
	UpdateBlog(ctx context.Context, userID, blogID primitive.ObjectID, patch BlogPatch) (*Blog, error)
	DeleteBlog(ctx context.Context, userID, blogID primitive.ObjectID) (*Blog, error)
}
