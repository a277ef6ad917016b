package service

import (
	"regexp"
	"time"

	"github.com/aokimura/chatplaza/internal/models"
	"github.com/aokimura/chatplaza/internal/repository"
	"github.com/aokimura/chatplaza/internal/utils"
	"github.com/aokimura/chatplaza/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	environment   string
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, environment string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		environment:   environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	Username        string
	Nickname        string
	Password        string
	PasswordConfirm string
}

// Register creates an account with a hashed password. It does not establish
// a session; the user logs in afterwards.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("email", input.Email),
		zap.String("username", input.Username),
	)

	// 1. Validate input
	if err := validateRegisterInput(input); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", input.Email),
			zap.Error(err),
		)
		return nil, err
	}

	// 2. Check if email already exists
	existingUser, err := s.userRepo.GetUserByEmail(input.Email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", input.Email),
			zap.Error(err),
		)
		return nil, err
	}
	if existingUser != nil {
		logger.Log.Warn("Email already exists",
			zap.String("email", input.Email),
		)
		return nil, FieldErrors{"email": "email already exists"}
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	// 4. Create user
	user := &models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		Nickname:     input.Nickname,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("email", input.Email),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", input.Email),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, nil
}

// Login authenticates by email and password and returns a signed session
// token on success.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	logger.Log.Debug("Processing user login",
		zap.String("email", email),
	)

	// 1. Get user by email
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil || !user.IsActive {
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		return nil, "", ErrInvalidCredentials
	}

	// 2. Verify password
	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	// 3. Generate session token
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return user, token, nil
}

// GetProfile returns the user's own profile.
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfileInput carries the profile edit form fields. The password
// triplet is optional; the current password is required only when a
// password change is attempted.
type UpdateProfileInput struct {
	Email           string
	Username        string
	Nickname        string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// UpdateProfile applies profile edits. When the password changes, a fresh
// session token is returned so the caller re-establishes the session under
// the new credential; otherwise the token is empty.
func (s *AuthService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	fieldErrs := FieldErrors{}
	if input.Email == "" {
		fieldErrs["email"] = "this field is required"
	} else if !emailRegex.MatchString(input.Email) {
		fieldErrs["email"] = "enter a valid email address, e.g. user@example.com"
	}
	if input.Username == "" {
		fieldErrs["username"] = "this field is required"
	}
	if input.Nickname == "" {
		fieldErrs["nickname"] = "this field is required"
	}

	changingPassword := input.NewPassword != "" || input.ConfirmPassword != ""
	if changingPassword {
		if input.NewPassword != input.ConfirmPassword {
			fieldErrs["confirm_password"] = "new passwords do not match"
		}
		if input.CurrentPassword == "" {
			fieldErrs["current_password"] = "this field is required"
		} else {
			valid, err := utils.VerifyPassword(input.CurrentPassword, user.PasswordHash)
			if err != nil {
				return nil, "", err
			}
			if !valid {
				fieldErrs["current_password"] = "current password is incorrect"
			}
		}
		if input.NewPassword != "" && len(input.NewPassword) < 8 {
			fieldErrs["new_password"] = "password must be at least 8 characters"
		}
	}

	// Changing to an email another account already owns
	if fieldErrs["email"] == "" && input.Email != user.Email {
		other, err := s.userRepo.GetUserByEmail(input.Email)
		if err != nil {
			return nil, "", err
		}
		if other != nil {
			fieldErrs["email"] = "email already exists"
		}
	}

	if len(fieldErrs) > 0 {
		logger.Log.Warn("Profile update validation failed",
			zap.String("user_id", userID.String()),
			zap.Error(fieldErrs),
		)
		return nil, "", fieldErrs
	}

	user.Email = input.Email
	user.Username = input.Username
	user.Nickname = input.Nickname

	if changingPassword {
		hashedPassword, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			logger.Log.Error("Failed to hash new password", zap.Error(err))
			return nil, "", err
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		logger.Log.Error("Failed to update user",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	// Re-establish the session when the credential changed
	token := ""
	if changingPassword {
		token, err = utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
		if err != nil {
			logger.Log.Error("Failed to generate JWT token after password change",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			return nil, "", err
		}
	}

	logger.Log.Info("Profile updated",
		zap.String("user_id", userID.String()),
		zap.Bool("password_changed", changingPassword),
	)

	return user, token, nil
}

// DeleteAccount soft deletes the user's own account.
func (s *AuthService) DeleteAccount(userID uuid.UUID) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.SoftDeleteUser(userID); err != nil {
		logger.Log.Error("Failed to delete account",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Account deleted",
		zap.String("user_id", userID.String()),
	)

	return nil
}

// SearchUsers lists users for the operator console, including deleted ones.
func (s *AuthService) SearchUsers(query string) ([]*models.User, error) {
	users, err := s.userRepo.SearchUsers(query)
	if err != nil {
		logger.Log.Error("Failed to search users",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Debug("Searched users",
		zap.String("query", query),
		zap.Int("count", len(users)),
	)

	return users, nil
}

func validateRegisterInput(input RegisterInput) error {
	fieldErrs := FieldErrors{}

	if input.Email == "" {
		fieldErrs["email"] = "this field is required"
	} else if !emailRegex.MatchString(input.Email) {
		fieldErrs["email"] = "enter a valid email address, e.g. user@example.com"
	} else if len(input.Email) > 255 {
		fieldErrs["email"] = "email too long"
	}

	if input.Username == "" {
		fieldErrs["username"] = "this field is required"
	} else if len(input.Username) > 255 {
		fieldErrs["username"] = "username too long"
	}

	if input.Nickname == "" {
		fieldErrs["nickname"] = "this field is required"
	}

	if input.Password == "" {
		fieldErrs["password"] = "this field is required"
	} else if len(input.Password) < 8 {
		fieldErrs["password"] = "password must be at least 8 characters"
	} else if len(input.Password) > 128 {
		fieldErrs["password"] = "password too long"
	}

	// Attach the mismatch to the confirmation field
	if input.Password != "" && input.PasswordConfirm != "" && input.Password != input.PasswordConfirm {
		fieldErrs["password_confirm"] = "passwords do not match"
	} else if input.PasswordConfirm == "" {
		fieldErrs["password_confirm"] = "this field is required"
	}

	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}
