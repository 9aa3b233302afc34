package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/culinarynotes/culinarynotes/internal/metrics"
	"github.com/culinarynotes/culinarynotes/internal/model"
	"github.com/culinarynotes/culinarynotes/internal/repository"
)

// UserStore is the persistence port for users.
type UserStore interface {
	FindAllUsers(ctx context.Context) ([]*model.User, error)
	FindUserByID(ctx context.Context, id int64) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	SearchUsersByUsername(ctx context.Context, fragment string) ([]*model.User, error)
	UserExistsByID(ctx context.Context, id int64) (bool, error)
	UserExistsByUsername(ctx context.Context, username string) (bool, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	SaveUser(ctx context.Context, user *model.User) error
	DeleteUserByID(ctx context.Context, id int64) error
}

// UserService manages users. Username and email are unique independently;
// username is checked first and a conflict there skips the email check.
type UserService struct {
	store   UserStore
	keys    keySet[model.User]
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, logger *slog.Logger, recorder metrics.Recorder) *UserService {
	logger, recorder = defaults(logger, recorder)
	return &UserService{
		store: store,
		keys: keySet[model.User]{
			entity:  metrics.EntityUser,
			metrics: recorder,
			keys: []uniqueKey[model.User]{
				{
					name:       "username",
					constraint: repository.ConstraintUserUsername,
					same:       func(a, b *model.User) bool { return a.Username == b.Username },
					describe:   func(u *model.User) string { return u.Username },
					taken: func(ctx context.Context, u *model.User) (bool, error) {
						return store.UserExistsByUsername(ctx, u.Username)
					},
				},
				{
					name:       "email",
					constraint: repository.ConstraintUserEmail,
					same:       func(a, b *model.User) bool { return a.Email == b.Email },
					describe:   func(u *model.User) string { return u.Email },
					taken: func(ctx context.Context, u *model.User) (bool, error) {
						return store.UserExistsByEmail(ctx, u.Email)
					},
				},
			},
		},
		logger:  logger.With("component", "user_service"),
		metrics: recorder,
	}
}

// List returns all users.
func (s *UserService) List(ctx context.Context) (users []*model.User, err error) {
	op := startOperation(s.logger, s.metrics, "listUsers")
	defer func() { op.done(ctx, err) }()

	users, err = s.store.FindAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	op.log.DebugContext(ctx, "users found", "count", len(users))
	return users, nil
}

// GetByID returns the user with the given id or a NotFoundError.
func (s *UserService) GetByID(ctx context.Context, id int64) (user *model.User, err error) {
	op := startOperation(s.logger, s.metrics, "getUserById", "user_id", id)
	defer func() { op.done(ctx, err) }()

	return s.getByID(ctx, id)
}

// GetByUsername looks up a user by username. found is false when there is no match.
func (s *UserService) GetByUsername(ctx context.Context, username string) (user *model.User, found bool, err error) {
	op := startOperation(s.logger, s.metrics, "getUserByUsername", "username", username)
	defer func() { op.done(ctx, err) }()

	return s.lookup(s.store.FindUserByUsername(ctx, username))
}

// GetByEmail looks up a user by email. found is false when there is no match.
func (s *UserService) GetByEmail(ctx context.Context, email string) (user *model.User, found bool, err error) {
	op := startOperation(s.logger, s.metrics, "getUserByEmail", "email", email)
	defer func() { op.done(ctx, err) }()

	return s.lookup(s.store.FindUserByEmail(ctx, email))
}

// Search returns users whose username contains fragment, ignoring case.
func (s *UserService) Search(ctx context.Context, fragment string) (users []*model.User, err error) {
	op := startOperation(s.logger, s.metrics, "searchUsers", "search_username", fragment)
	defer func() { op.done(ctx, err) }()

	users, err = s.store.SearchUsersByUsername(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	op.log.DebugContext(ctx, "users found", "count", len(users))
	return users, nil
}

// Create stores a new user. The password must already be hashed.
func (s *UserService) Create(ctx context.Context, candidate *model.User) (user *model.User, err error) {
	op := startOperation(s.logger, s.metrics, "createUser", "username", candidate.Username)
	defer func() { op.done(ctx, err) }()

	if err = s.keys.checkCreate(ctx, candidate); err != nil {
		return nil, err
	}

	user = &model.User{
		Username:  candidate.Username,
		Email:     candidate.Email,
		Password:  candidate.Password,
		FirstName: candidate.FirstName,
		LastName:  candidate.LastName,
		Bio:       candidate.Bio,
	}
	if err = s.store.SaveUser(ctx, user); err != nil {
		return nil, s.keys.saveError(err, user, "create")
	}

	s.metrics.IncEntityCreated(metrics.EntityUser)
	op.log.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// Update replaces the profile fields of the user with those of detail.
// The stored password is kept.
func (s *UserService) Update(ctx context.Context, id int64, detail *model.User) (user *model.User, err error) {
	op := startOperation(s.logger, s.metrics, "updateUser", "user_id", id)
	defer func() { op.done(ctx, err) }()

	user, err = s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.keys.checkUpdate(ctx, user, detail); err != nil {
		return nil, err
	}

	user.Username = detail.Username
	user.Email = detail.Email
	user.FirstName = detail.FirstName
	user.LastName = detail.LastName
	user.Bio = detail.Bio

	if err = s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFoundByID(metrics.EntityUser, id)
		}
		return nil, s.keys.saveError(err, user, "update")
	}

	s.metrics.IncEntityUpdated(metrics.EntityUser)
	op.log.InfoContext(ctx, "user updated")
	return user, nil
}

// Delete removes the user with the given id.
func (s *UserService) Delete(ctx context.Context, id int64) (err error) {
	op := startOperation(s.logger, s.metrics, "deleteUser", "user_id", id)
	defer func() { op.done(ctx, err) }()

	exists, err := s.store.UserExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundByID(metrics.EntityUser, id)
	}

	if err = s.store.DeleteUserByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFoundByID(metrics.EntityUser, id)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.metrics.IncEntityDeleted(metrics.EntityUser)
	op.log.InfoContext(ctx, "user deleted")
	return nil
}

func (s *UserService) getByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFoundByID(metrics.EntityUser, id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) lookup(user *model.User, err error) (*model.User, bool, error) {
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, true, nil
}
