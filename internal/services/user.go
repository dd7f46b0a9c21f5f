package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/types"
  "github.com/krishikbazar/backend/internal/utils"
)

type ProfileUpdate struct {
  Username        string
  Email           string
  Role            string
  Phone           string
  Address         string
  Password        string
  ConfirmPassword string
}

type UserService interface {
  GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
  UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error)
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to get user: %w", err)
  }
  if len(users) == 0 {
    return nil, ErrNotFound
  }
  return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.User, error) {
  username := utils.ParseInputString(update.Username)
  email := utils.ParseInputString(update.Email)
  if username == "" || email == "" {
    return nil, ErrMissingFields
  }

  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to get user: %w", err)
  }
  if len(users) == 0 {
    return nil, ErrNotFound
  }
  user := users[0]

  usernameTaken, err := us.userRepo.UsernameTaken(ctx, nil, username, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to check username: %w", err)
  }
  if usernameTaken {
    return nil, ErrUsernameTaken
  }
  emailTaken, err := us.userRepo.EmailTaken(ctx, nil, email, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to check email: %w", err)
  }
  if emailTaken {
    return nil, ErrEmailTaken
  }

  user.Username = username
  user.Email = email
  if update.Role == types.RoleFarmer || update.Role == types.RoleBuyer {
    user.Role = update.Role
  }
  user.Phone = utils.ParseInputString(update.Phone)
  user.Address = utils.ParseInputString(update.Address)

  password := utils.ParseInputString(update.Password)
  if password != "" {
    if password != utils.ParseInputString(update.ConfirmPassword) {
      return nil, ErrPasswordMismatch
    }
    hashed, err := utils.HashPassword(password)
    if err != nil {
      return nil, err
    }
    user.Password = hashed
  }

  if err := us.userRepo.Update(ctx, nil, user); err != nil {
    return nil, fmt.Errorf("Failed to update user: %w", err)
  }
  return user, nil
}
