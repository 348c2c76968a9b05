package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type UserService struct {
	repo       domain.UserRepository
	activity   *activity
	logger     logger.Logger
	bcryptCost int
}

func NewUserService(
	repo domain.UserRepository,
	auditLogSvc domain.AuditLogService,
	publisher domain.EventPublisher,
	logger logger.Logger,
) domain.UserService {
	return &UserService{
		repo:       repo,
		activity:   newActivity(auditLogSvc, publisher, logger),
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, domain.Storage("Error in fetching users", err)
	}

	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || input.Password == "" {
		return nil, domain.Validation("Email, username and password are required.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, domain.Storage("Error in creating user", err)
	}

	user := &domain.User{
		Email:    email,
		Username: username,
		Password: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, domain.Storage("Error in creating user", err)
	}

	s.logger.InfoContext(ctx, "User created", logger.Fields{"user_id": user.ID.Hex()})
	s.activity.record(ctx, domain.EntityTypeUser, domain.ActionTypeCreate, user.ID, user.ID,
		fmt.Sprintf("User created: %s", user.Username), user)

	return user, nil
}

func (s *UserService) UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Validation("ID or new username was not found")
	}

	user, err := s.repo.UpdateUsername(ctx, id, username)
	if err != nil {
		return nil, domain.Storage("Error in updating user", err)
	}
	if user == nil {
		return nil, domain.ReferenceNotFound("User was not found in the database.")
	}

	s.activity.record(ctx, domain.EntityTypeUser, domain.ActionTypeUpdate, user.ID, user.ID,
		fmt.Sprintf("Username changed to %s", user.Username), user)

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, domain.Storage("Error in deleting user", err)
	}
	if user == nil {
		return nil, domain.ReferenceNotFound("User not found in the database.")
	}

	s.activity.record(ctx, domain.EntityTypeUser, domain.ActionTypeDelete, user.ID, user.ID,
		fmt.Sprintf("User deleted: %s", user.Username), user)

	return user, nil
}

// Authenticate checks the credentials and returns the matching user. An
// unknown email and a wrong password yield the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	invalid := domain.Unauthorized("Invalid email or password.")

	if email == "" || password == "" {
		return nil, invalid
	}

	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, domain.Storage("Error in authenticating user", err)
	}
	if user == nil {
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.WarnContext(ctx, "Stored password hash is unusable", logger.Fields{"user_id": user.ID.Hex(), "error": err.Error()})
		}
		return nil, invalid
	}

	return user, nil
}
