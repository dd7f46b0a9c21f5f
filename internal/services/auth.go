package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/gorm"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/requestdata"
  "github.com/krishikbazar/backend/internal/types"
  "github.com/krishikbazar/backend/internal/utils"
)

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) error
  LoginUser(ctx context.Context, email, password string) (string, string, error)
  RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
  user.Username = utils.ParseInputString(user.Username)
  user.Email = utils.ParseInputString(user.Email)
  user.Phone = utils.ParseInputString(user.Phone)
  user.Address = utils.ParseInputString(user.Address)
  user.Password = utils.ParseInputString(user.Password)

  if user.Username == "" || user.Email == "" || user.Password == "" {
    return ErrMissingFields
  }
  if user.Role != types.RoleFarmer && user.Role != types.RoleBuyer {
    user.Role = types.RoleBuyer
  }

  usernameTaken, err := as.userRepo.UsernameTaken(ctx, nil, user.Username, uuid.Nil)
  if err != nil {
    return fmt.Errorf("Failed to check username: %w", err)
  }
  if usernameTaken {
    return ErrUsernameTaken
  }
  emailTaken, err := as.userRepo.EmailTaken(ctx, nil, user.Email, uuid.Nil)
  if err != nil {
    return fmt.Errorf("Failed to check email: %w", err)
  }
  if emailTaken {
    return ErrEmailTaken
  }

  hashed, err := utils.HashPassword(user.Password)
  if err != nil {
    return err
  }
  user.Password = hashed

  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user.ID = uuid.New()
    if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
      return fmt.Errorf("Failed to create user: %w", err)
    }
    return nil
  })
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
  email = utils.ParseInputString(email)
  password = utils.ParseInputString(password)
  if email == "" || password == "" {
    return "", "", ErrMissingFields
  }

  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return "", "", fmt.Errorf("Error retrieving user by email: %w", err)
  }
  if len(users) == 0 {
    return "", "", ErrInvalidLogin
  }
  user := users[0]
  if !utils.CheckPassword(user.Password, password) {
    return "", "", ErrInvalidLogin
  }

  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundTokens, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
    if err != nil {
      return fmt.Errorf("Failed to check user tokens: %w", err)
    }
    staleIDs := make([]uuid.UUID, 0, len(foundTokens))
    for _, tok := range foundTokens {
      staleIDs = append(staleIDs, tok.ID)
    }
    if err := as.userTokenRepo.DeleteByIDs(ctx, tx, staleIDs); err != nil {
      return fmt.Errorf("Failed to delete stale user tokens: %w", err)
    }
    tok, err := as.generateAccessToken(user)
    if err != nil {
      return fmt.Errorf("Generate access token error: %w", err)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    userToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); err != nil {
      return fmt.Errorf("Create user token error: %w", err)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context, providedRefreshToken string) (string, string, error) {
  providedRefreshToken = utils.ParseInputString(providedRefreshToken)
  if providedRefreshToken == "" {
    return "", "", ErrNotFound
  }

  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, providedRefreshToken)
    if err != nil {
      return fmt.Errorf("Failed to look up refresh token: %w", err)
    }
    if existing == nil || existing.ExpiresAt.Before(time.Now()) {
      return ErrNotFound
    }
    users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
    if err != nil || len(users) == 0 {
      return ErrNotFound
    }
    user := users[0]
    if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
      return fmt.Errorf("Failed to rotate token: %w", err)
    }
    tok, err := as.generateAccessToken(user)
    if err != nil {
      return fmt.Errorf("Generate access token error: %w", err)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    userToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); err != nil {
      return fmt.Errorf("Create user token error: %w", err)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    return ErrNotFound
  }
  existing, err := as.userTokenRepo.GetByAccessToken(ctx, nil, rd.TokenString)
  if err != nil {
    return fmt.Errorf("Failed to look up token: %w", err)
  }
  if existing == nil {
    return ErrNotFound
  }
  return as.userTokenRepo.DeleteByIDs(ctx, nil, []uuid.UUID{existing.ID})
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  now := time.Now()
  claims := jwt.MapClaims{
    "sub":  user.ID.String(),
    "role": user.Role,
    "iat":  now.Unix(),
    "exp":  now.Add(as.accessTTL).Unix(),
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !parsed.Valid {
    return ctx, fmt.Errorf("invalid token")
  }
  claims, ok := parsed.Claims.(jwt.MapClaims)
  if !ok {
    return ctx, fmt.Errorf("invalid token claims")
  }
  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil {
    return ctx, fmt.Errorf("invalid token subject")
  }
  role, _ := claims["role"].(string)

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Role:        role,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
