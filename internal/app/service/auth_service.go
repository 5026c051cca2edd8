package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"github.com/gymbuddy/gymbuddy-backend/pkg/redis"
	"github.com/gymbuddy/gymbuddy-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidAccountType   = errors.New("unknown account type")
	ErrBusinessInfoMissing  = errors.New("business details are required for this account type")
	ErrProfileFieldsMissing = errors.New("location and home gym are required")
)

// BusinessSignupInfo carries the business fields collected at gym-owner or
// trainer signup
type BusinessSignupInfo struct {
	BusinessName    string
	BusinessEmail   string
	Address         string
	HourlyRate      float64
	Specializations []string
	Certifications  []string
}

type AuthService interface {
	Register(email, password, name string, accountType model.AccountType, business *BusinessSignupInfo) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string, expiry time.Duration) error
	GetUserByID(id uint) (*model.User, error)
	CompleteProfile(userID uint, location, homeGym string) (*model.User, error)
	UpdateProfile(userID uint, name, profileImage string) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Register creates a user with the chosen account type. Gym owners and
// trainers get their business sub-record in the same transaction; the
// account type is fixed from this point on.
func (s *authService) Register(email, password, name string, accountType model.AccountType, business *BusinessSignupInfo) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":        email,
		"account_type": accountType,
	})

	if accountType == "" {
		accountType = model.AccountTypeStandard
	}
	if !model.IsValidAccountType(accountType) {
		return nil, nil, ErrInvalidAccountType
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Nickname:     util.GenerateNickname(nicknameBase(name)),
		Role:         model.RoleUser,
		AccountType:  accountType,
	}

	switch accountType {
	case model.AccountTypeGymOwner:
		if business == nil || business.BusinessName == "" || business.BusinessEmail == "" || business.Address == "" {
			return nil, nil, ErrBusinessInfoMissing
		}
		account := &model.GymAccount{
			BusinessName:       business.BusinessName,
			BusinessEmail:      business.BusinessEmail,
			Address:            business.Address,
			VerificationStatus: model.VerificationStatusPending,
		}
		err = s.userRepo.CreateWithGymAccount(user, account)
	case model.AccountTypePersonalTrainer:
		profile := &model.TrainerProfile{
			HourlyRate:         0,
			IsAcceptingClients: true,
		}
		if business != nil {
			profile.HourlyRate = business.HourlyRate
			profile.Specializations = business.Specializations
			profile.Certifications = business.Certifications
		}
		if profile.HourlyRate < 0 {
			profile.HourlyRate = 0
		}
		err = s.userRepo.CreateWithTrainerProfile(user, profile)
	default:
		err = s.userRepo.Create(user)
	}
	if err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email":        email,
			"account_type": accountType,
		})
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":      user.ID,
		"email":        email,
		"account_type": accountType,
	})

	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":      user.ID,
		"account_type": user.AccountType,
	})

	return user, tokens, nil
}

// Logout blacklists the presented access token until its natural expiry
func (s *authService) Logout(ctx context.Context, token string, expiry time.Duration) error {
	return redis.BlacklistToken(ctx, token, expiry)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithBusiness(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

// CompleteProfile fills the mandatory profile fields and flips
// ProfileComplete. Once true it never flips back.
func (s *authService) CompleteProfile(userID uint, location, homeGym string) (*model.User, error) {
	if location == "" || homeGym == "" {
		return nil, ErrProfileFieldsMissing
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Location = location
	user.HomeGym = homeGym
	user.ProfileComplete = true

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile completed", map[string]interface{}{
		"user_id":  user.ID,
		"location": location,
	})

	return user, nil
}

func (s *authService) UpdateProfile(userID uint, name, profileImage string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updated := false
	if name != "" && name != user.Name {
		user.Name = name
		updated = true
	}
	if profileImage != "" && profileImage != user.ProfileImage {
		user.ProfileImage = profileImage
		updated = true
	}

	if !updated {
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	return util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		string(user.AccountType),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
}

func nicknameBase(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if len(base) > 12 {
		base = base[:12]
	}
	return base
}
