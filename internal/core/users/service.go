package users

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// Onyens are campus account names: lowercase alphanumerics, 1-32 chars
var onyenRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_]{0,31}$`)

// maxBatchSize bounds GetUsersByIDs so a listing can't build an unbounded IN clause
const maxBatchSize = 1000

type userService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// CreateUser adds a user to the directory
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	req.Onyen = strings.TrimSpace(strings.ToLower(req.Onyen))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	user := &User{
		PID:       req.PID,
		Onyen:     req.Onyen,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Pronouns:  strings.TrimSpace(req.Pronouns),
	}

	// Repository will handle duplicate constraint errors
	return s.userRepo.Create(ctx, user)
}

// GetUserByID retrieves a user by their numeric ID
func (s *userService) GetUserByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByOnyen retrieves a user by their onyen
func (s *userService) GetUserByOnyen(ctx context.Context, onyen string) (*User, error) {
	onyen = strings.TrimSpace(strings.ToLower(onyen))
	if onyen == "" {
		return nil, &InvalidUserError{Field: "onyen", Reason: "onyen is required"}
	}
	return s.userRepo.GetByOnyen(ctx, onyen)
}

// GetUsersByIDs retrieves several users at once, deduplicating the requested IDs
func (s *userService) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*User, error) {
	if len(ids) == 0 {
		return map[int64]*User{}, nil
	}

	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) > maxBatchSize {
		return nil, fmt.Errorf("batch of %d users exceeds maximum of %d", len(unique), maxBatchSize)
	}

	return s.userRepo.GetByIDs(ctx, unique)
}

func (s *userService) validateCreateRequest(req CreateUserRequest) error {
	if req.Onyen == "" {
		return &InvalidUserError{Field: "onyen", Reason: "onyen is required"}
	}
	if !onyenRegex.MatchString(req.Onyen) {
		return &InvalidUserError{Field: "onyen", Reason: "must be lowercase alphanumeric"}
	}
	if req.FirstName == "" {
		return &InvalidUserError{Field: "first_name", Reason: "first name is required"}
	}
	if req.LastName == "" {
		return &InvalidUserError{Field: "last_name", Reason: "last name is required"}
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return &InvalidUserError{Field: "email", Reason: "not a valid address"}
		}
	}
	if req.PID < 0 {
		return &InvalidUserError{Field: "pid", Reason: "must not be negative"}
	}
	return nil
}
