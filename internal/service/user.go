package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"carshare/internal/domain"
	"carshare/internal/redis"
	"carshare/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// TokenIssuer issues signed authentication tokens for a user.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// UserService handles account registration, login and removal. Removal
// cascades over the user's footprint (their bookings, their rides, and the
// bookings against those rides) in a single transaction.
type UserService struct {
	transactor  repository.Transactor
	userRepo    repository.UserRepository
	rideRepo    repository.RideRepository
	bookingRepo repository.BookingRepository
	cache       redis.CacheStoreInterface
	tokens      TokenIssuer
	clock       Clock
}

// NewUserService creates a new UserService. cache may be nil; clock defaults
// to the system clock when nil.
func NewUserService(
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	rideRepo repository.RideRepository,
	bookingRepo repository.BookingRepository,
	cache redis.CacheStoreInterface,
	tokens TokenIssuer,
	clock Clock,
) *UserService {
	if clock == nil {
		clock = SystemClock()
	}
	return &UserService{
		transactor:  transactor,
		userRepo:    userRepo,
		rideRepo:    rideRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
		tokens:      tokens,
		clock:       clock,
	}
}

// RegisterRequest contains the parameters for registering a user.
type RegisterRequest struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Role        domain.UserRole
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Register creates a new account and issues a token for it.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return nil, ErrWeakPassword
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, ErrFullNameRequired
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.UserRoleUser
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  req.PhoneNumber,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates an existing account and issues a token for it.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// DeleteUser removes a user and all their dependent records in dependency
// order: the user's own bookings first, then every booking against the
// user's rides, then those rides, then the user. The whole cascade commits
// or rolls back as one transaction; a half-completed cascade is never
// observable.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var deletedRides []*domain.Ride

	err := s.transactor.InTx(ctx, func(r repository.TxRepos) error {
		if err := r.Bookings.DeleteByPassenger(ctx, userID); err != nil {
			return err
		}

		rides, err := r.Rides.ListByDriver(ctx, userID)
		if err != nil {
			return err
		}

		// Bookings against the user's rides go without crediting seats
		// back: the rides are removed in the same transaction.
		for _, ride := range rides {
			if err := r.Bookings.DeleteByRide(ctx, ride.ID); err != nil {
				return err
			}
		}

		if err := r.Rides.DeleteByDriver(ctx, userID); err != nil {
			return err
		}

		if err := r.Users.Delete(ctx, userID); err != nil {
			return err
		}

		deletedRides = rides
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		for _, ride := range deletedRides {
			_ = s.cache.InvalidateRide(ctx, ride.ID)
		}
	}

	return nil
}
