package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/simplylearn/api/internal/dto"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/observability"
	"github.com/simplylearn/api/internal/repository"
	"github.com/simplylearn/api/pkg/mail"
)

var (
	// ErrEmailTaken indicates the registration email is already in use.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrUserNotFound indicates no account matches the given identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for any bad email/password combination
	// without revealing which field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotVerified indicates the account has not completed OTP verification.
	ErrNotVerified = errors.New("please verify your email before logging in")
	// ErrInvalidOTP indicates the supplied verification code does not match.
	ErrInvalidOTP = errors.New("invalid verification code")
	// ErrOTPExpired indicates the stored verification code is past its expiry.
	ErrOTPExpired = errors.New("verification code has expired")
	// ErrAlreadyVerified indicates a resend request for a verified account.
	ErrAlreadyVerified = errors.New("email is already verified")
	// ErrAccountLocked is the sentinel wrapped by AccountLockedError.
	ErrAccountLocked = errors.New("account temporarily locked")
)

var emailPattern = regexp.MustCompile(`^[^\s@]{1,64}@[^\s@]{1,255}\.[^\s@]{2,}$`)

// AccountLockedError reports an active lockout window with the remaining time.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	minutes := int(e.Remaining.Minutes()) + 1
	return fmt.Sprintf("account locked due to repeated failed logins, try again in %d minute(s)", minutes)
}

// Unwrap lets callers match with errors.Is(err, ErrAccountLocked).
func (e *AccountLockedError) Unwrap() error { return ErrAccountLocked }

// AuthConfig carries the tunables of the credential workflow.
type AuthConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	OTPTTL           time.Duration
	LockoutThreshold int
	LockoutWindow    time.Duration
	AppName          string
}

// AuthService orchestrates registration, verification, and session issuance.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	VerifyEmail(ctx context.Context, payload dto.VerifyEmailRequest) (dto.AuthResponse, error)
	ResendOTP(ctx context.Context, payload dto.ResendOTPRequest) error
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.UpdateProfileRequest) (dto.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	mailer    mail.Mailer
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
	otp       func() string
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users repository.UserRepository, mailer mail.Mailer, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.LockoutThreshold <= 0 {
		cfg.LockoutThreshold = 3
	}
	if cfg.LockoutWindow <= 0 {
		cfg.LockoutWindow = 5 * time.Minute
	}

	return &authService{
		users:     users,
		mailer:    mailer,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
		otp:       generateOTP,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email, err := normalizeEmail(payload.Email)
	if err != nil {
		return dto.UserResponse{}, err
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	code := s.otp()
	expiry := s.now().Add(s.cfg.OTPTTL)

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.ParseRole(payload.Role),
		OTPCode:      code,
		OTPExpiresAt: &expiry,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.sendOTP(ctx, user, code)
	s.logger.Info().Uint("user_id", user.ID).Msg("account registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) VerifyEmail(ctx context.Context, payload dto.VerifyEmailRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email, err := normalizeEmail(payload.Email)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrUserNotFound
		}
		return dto.AuthResponse{}, err
	}

	if user.OTPCode == "" || user.OTPCode != payload.OTP {
		return dto.AuthResponse{}, ErrInvalidOTP
	}

	if user.OTPExpired(s.now()) {
		return dto.AuthResponse{}, ErrOTPExpired
	}

	user.IsVerified = true
	user.OTPCode = ""
	user.OTPExpiresAt = nil

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("email verified")

	return dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

func (s *authService) ResendOTP(ctx context.Context, payload dto.ResendOTPRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	email, err := normalizeEmail(payload.Email)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	code := s.otp()
	expiry := s.now().Add(s.cfg.OTPTTL)
	user.OTPCode = code
	user.OTPExpiresAt = &expiry

	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.sendOTP(ctx, user, code)

	return nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email, err := normalizeEmail(payload.Email)
	if err != nil {
		// Same response as a wrong password: never reveal which field failed.
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	now := s.now()
	if user.IsLocked(now) {
		return dto.AuthResponse{}, &AccountLockedError{Remaining: user.LockedUntil.Sub(now)}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return dto.AuthResponse{}, s.recordFailedLogin(ctx, &user, now)
	}

	if !user.IsVerified {
		return dto.AuthResponse{}, ErrNotVerified
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("login succeeded")

	return dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

func (s *authService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, payload dto.UpdateProfileRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrUserNotFound
		}
		return dto.AuthResponse{}, err
	}

	if payload.Name != nil {
		if name := strings.TrimSpace(*payload.Name); name != "" {
			user.Name = name
		}
	}

	if payload.Email != nil {
		email, err := normalizeEmail(*payload.Email)
		if err != nil {
			return dto.AuthResponse{}, err
		}
		if email != user.Email {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return dto.AuthResponse{}, err
			}
			if taken {
				return dto.AuthResponse{}, ErrEmailTaken
			}
			user.Email = email
		}
	}

	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if payload.Bio != nil {
		user.Bio = strings.TrimSpace(*payload.Bio)
	}

	if payload.Avatar != nil {
		user.AvatarURL = strings.TrimSpace(*payload.Avatar)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	// A fresh token reflects any identity change immediately.
	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

func (s *authService) recordFailedLogin(ctx context.Context, user *models.User, now time.Time) error {
	observability.LoginFailures().Inc()

	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= s.cfg.LockoutThreshold {
		until := now.Add(s.cfg.LockoutWindow)
		user.LockedUntil = &until
		user.FailedLoginAttempts = 0
		observability.AccountLocks().Inc()
		s.logger.Warn().Uint("user_id", user.ID).Time("locked_until", until).Msg("account locked")
	}

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return ErrInvalidCredentials
}

func (s *authService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *authService) sendOTP(ctx context.Context, user models.User, code string) {
	msg := mail.Message{
		ToName:    user.Name,
		ToAddress: user.Email,
		Subject:   "Verify your email",
		TextBody:  fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.", s.cfg.AppName, code, int(s.cfg.OTPTTL.Minutes())),
		HTMLBody:  fmt.Sprintf("<p>Your %s verification code is <strong>%s</strong>. It expires in %d minutes.</p>", s.cfg.AppName, code, int(s.cfg.OTPTTL.Minutes())),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		// Verification can still proceed through resend; do not fail the request.
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("failed to send verification email")
	}
}

func normalizeEmail(input string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input))
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}

	return email, nil
}

func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing is unrecoverable for code generation
		panic(err)
	}

	return fmt.Sprintf("%06d", n.Int64())
}
