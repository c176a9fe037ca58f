package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
	"github.com/ghhamo/lootsy/internal/repository"
)

var (
	ErrUserNotFound      = newError(ErrNotFound, "user not found")
	ErrUserAlreadyExists = newError(ErrAlreadyExists, "user with email already exists")
)

// StatsCacheKey is where a user's account stats are cached.
func StatsCacheKey(userID int64) string {
	return "user:stats:" + strconv.FormatInt(userID, 10)
}

type UserService struct {
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	redisClient *redis.Client
	statsTTL    time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	redisClient *redis.Client,
	statsTTL time.Duration,
) *UserService {
	return &UserService{
		userRepo: userRepo, orderRepo: orderRepo,
		redisClient: redisClient, statsTTL: statsTTL,
	}
}

// CreateUser stores an enabled user with a hashed password together with an empty cart.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		Password:    string(hashed),
		PhoneNumber: req.PhoneNumber,
		Enabled:     true,
	}
	if _, err := s.userRepo.CreateWithCart(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *UserService) List(ctx context.Context, page dto.Pagination) (*dto.Page[dto.UserResponse], error) {
	users, err := s.userRepo.List(ctx, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.FromUser(&users[i]))
	}
	return &dto.Page[dto.UserResponse]{Items: items, Total: total, PageIndex: page.PageIndex, PageSize: page.PageSize}, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

// Delete is a no-op for unknown ids.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.invalidateStats(ctx, id)
	return nil
}

func (s *UserService) GetAccount(ctx context.Context, email string) (*dto.AccountResponse, error) {
	user, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromAccount(user, stats)
	return &resp, nil
}

// UpdateAccount overwrites name, surname and phone number only.
func (s *UserService) UpdateAccount(ctx context.Context, email string, req dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	user, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Surname = req.Surname
	user.PhoneNumber = req.PhoneNumber
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.invalidateStats(ctx, user.ID)

	stats, err := s.stats(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromAccount(user, stats)
	return &resp, nil
}

func (s *UserService) lookupByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) stats(ctx context.Context, userID int64) (model.UserStats, error) {
	key := StatsCacheKey(userID)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Bytes(); err == nil {
			var stats model.UserStats
			if json.Unmarshal(cached, &stats) == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.orderRepo.Stats(ctx, userID)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("get stats: %w", err)
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.redisClient.Set(ctx, key, data, s.statsTTL)
		}
	}
	return stats, nil
}

func (s *UserService) invalidateStats(ctx context.Context, userID int64) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, StatsCacheKey(userID))
	}
}
