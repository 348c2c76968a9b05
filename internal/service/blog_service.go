package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

const categoryNotOwned = "Error: Either the Category not found or it does not belong to the user."

type BlogService struct {
	users      domain.UserRepository
	categories domain.CategoryRepository
	blogs      domain.BlogRepository
	activity   *activity
	logger     logger.Logger
}

func NewBlogService(
	users domain.UserRepository,
	categories domain.CategoryRepository,
	blogs domain.BlogRepository,
	auditLogSvc domain.AuditLogService,
	publisher domain.EventPublisher,
	logger logger.Logger,
) domain.BlogService {
	return &BlogService{
		users:      users,
		categories: categories,
		blogs:      blogs,
		activity:   newActivity(auditLogSvc, publisher, logger),
		logger:     logger,
	}
}

func (s *BlogService) ListBlogs(ctx context.Context, query domain.BlogQuery) ([]*domain.Blog, error) {
	const op = "Error in fetching blogs"

	if err := s.requireCategory(ctx, query.UserID, query.CategoryID, op); err != nil {
		return nil, err
	}

	blogs, err := s.blogs.Find(ctx, query)
	if err != nil {
		return nil, domain.Storage(op, err)
	}

	return blogs, nil
}

func (s *BlogService) GetBlog(ctx context.Context, key domain.BlogKey) (*domain.Blog, error) {
	const op = "Error in fetching blog data"

	if err := s.requireCategory(ctx, key.User, key.Category, op); err != nil {
		return nil, err
	}

	blog, err := s.blogs.FindOwned(ctx, key)
	if err != nil {
		return nil, domain.Storage(op, err)
	}
	if blog == nil {
		return nil, domain.NotFound("Blog was not found.")
	}

	return blog, nil
}

// CreateBlog checks the category before inserting. The two steps are not
// atomic, so a category deleted in between leaves an orphaned blog.
func (s *BlogService) CreateBlog(ctx context.Context, userID, categoryID primitive.ObjectID, input domain.BlogInput) (*domain.Blog, error) {
	const op = "Error in creating blog"

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, domain.Validation("Title and description are required.")
	}

	if err := s.requireCategory(ctx, userID, categoryID, op); err != nil {
		return nil, err
	}

	blog := &domain.Blog{
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		User:        userID,
		Category:    categoryID,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, domain.Storage(op, err)
	}

	s.activity.record(ctx, domain.EntityTypeBlog, domain.ActionTypeCreate, blog.ID, userID,
		fmt.Sprintf("Blog created: %s", blog.Title), blog)

	return blog, nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, userID, blogID primitive.ObjectID, patch domain.BlogPatch) (*domain.Blog, error) {
	const op = "Error in updating blog"

	if patch.Empty() {
		return nil, domain.Validation("Title or description is required.")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.Validation("Title must not be empty.")
		}
		blogSlug := slug.Make(title)
		patch.Title = &title
		patch.Slug = &blogSlug
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, domain.Validation("Description must not be empty.")
		}
		patch.Description = &description
	}

	if err := requireUser(ctx, s.users, userID, op); err != nil {
		return nil, err
	}

	blog, err := s.blogs.UpdateOwned(ctx, blogID, userID, patch)
	if err != nil {
		return nil, domain.Storage(op, err)
	}
	if blog == nil {
		return nil, domain.NotFound("Blog not found in the database.")
	}

	s.activity.record(ctx, domain.EntityTypeBlog, domain.ActionTypeUpdate, blog.ID, userID,
		fmt.Sprintf("Blog updated: %s", blog.Title), blog)

	return blog, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, userID, blogID primitive.ObjectID) (*domain.Blog, error) {
	const op = "Error in deleting blog"

	if err := requireUser(ctx, s.users, userID, op); err != nil {
		return nil, err
	}

	blog, err := s.blogs.DeleteOwned(ctx, blogID, userID)
	if err != nil {
		return nil, domain.Storage(op, err)
	}
	if blog == nil {
		return nil, domain.NotFound("Blog not found in the database.")
	}

	s.activity.record(ctx, domain.EntityTypeBlog, domain.ActionTypeDelete, blog.ID, userID,
		fmt.Sprintf("Blog deleted: %s", blog.Title), blog)

	return blog, nil
}

func (s *BlogService) requireCategory(ctx context.Context, userID, categoryID primitive.ObjectID, op string) error {
	if err := requireUser(ctx, s.users, userID, op); err != nil {
		return err
	}

	category, err := s.categories.FindOwned(ctx, categoryID, userID)
	if err != nil {
		return domain.Storage(op, err)
	}
	if category == nil {
		return domain.ReferenceNotFound(categoryNotOwned)
	}
	return nil
}
