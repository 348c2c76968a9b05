package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Username  string             `json:"username" bson:"username"`
	Password  string             `json:"-" bson:"password"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateUserInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRepository lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	FindAll(ctx context.Context) ([]*User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) (*User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*User, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
}
