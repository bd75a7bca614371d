package user

import "context"

type UserService interface {
	Create(ctx context.Context, actor Actor, req CreateUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (UserResponse, error)
	List(ctx context.Context, actor Actor, filter UserFilter) (ListUserResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	// Register stores a self-registered account under the installation limit.
	Register(ctx context.Context, u User) (User, error)
	// EnsureMaster creates the platform master account when no user owns email.
	EnsureMaster(ctx context.Context, name, email, password string) error
}
