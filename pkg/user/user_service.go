package user

import (
	"GreenChoice-Backend/domain"
	"GreenChoice-Backend/entities"
	"GreenChoice-Backend/internal/utils"
	"GreenChoice-Backend/internal/utils/mailing"
	"GreenChoice-Backend/pkg/jwt"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenDuration = 30 * time.Minute

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		GuestLogin(ctx context.Context) (domain.AuthResponse, error)
		ConvertGuest(ctx context.Context, req domain.ConvertGuestRequest, userID string) (domain.AuthResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) error
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		SaveNote(ctx context.Context, req domain.SaveNoteRequest, userID string) error
		GetNote(ctx context.Context, userID string) (domain.NoteResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.AuthResponse{}, domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	newUser := &entities.User{
		ID:       uuid.New(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, newUser); err != nil {
		return domain.AuthResponse{}, err
	}

	return s.authResponse(newUser), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	found, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.AuthResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(req.Password)) != nil {
		return domain.AuthResponse{}, domain.ErrCredentialsInvalid
	}

	return s.authResponse(found), nil
}

// GuestLogin creates an anonymous account so a user can try the app before
// registering. The account can later be converted in place.
func (s *userService) GuestLogin(ctx context.Context) (domain.AuthResponse, error) {
	id := uuid.New()

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	guest := &entities.User{
		ID:       id,
		Username: "Guest",
		Email:    fmt.Sprintf("guest-%s@greenchoice.local", id.String()),
		Password: string(hashed),
		Role:     domain.RoleUser,
		IsGuest:  true,
	}

	if err := s.userRepository.CreateUser(ctx, guest); err != nil {
		return domain.AuthResponse{}, err
	}

	return s.authResponse(guest), nil
}

// ConvertGuest attaches real credentials to an anonymous account without
// losing the scans already recorded under it.
func (s *userService) ConvertGuest(ctx context.Context, req domain.ConvertGuestRequest, userID string) (domain.AuthResponse, error) {
	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.ErrUserNotFound
		}
		return domain.AuthResponse{}, err
	}

	if !found.IsGuest {
		return domain.AuthResponse{}, domain.ErrAccountNotGuest
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.AuthResponse{}, domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	found.Username = req.Username
	found.Email = req.Email
	found.Password = string(hashed)
	found.IsGuest = false

	if err := s.userRepository.UpdateUser(ctx, found); err != nil {
		return domain.AuthResponse{}, err
	}

	return s.authResponse(found), nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	return domain.UserResponse{
		ID:       found.ID.String(),
		Username: found.Username,
		Email:    found.Email,
		IsGuest:  found.IsGuest,
	}, nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) error {
	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if req.Username != "" {
		found.Username = req.Username
	}
	if req.Email != "" {
		found.Email = req.Email
	}

	return s.userRepository.UpdateUser(ctx, found)
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	found, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(map[string]any{
		"user_id": found.ID.String(),
		"email":   found.Email,
	}, resetTokenDuration)
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", utils.GetConfig("APP_URL"), token)
	return mailing.SendResetPasswordMail(found.Email, found.Username, resetLink)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrTokenInvalid
	}

	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	found.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, found)
}

func (s *userService) SaveNote(ctx context.Context, req domain.SaveNoteRequest, userID string) error {
	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	found.Note = req.Note
	return s.userRepository.UpdateUser(ctx, found)
}

func (s *userService) GetNote(ctx context.Context, userID string) (domain.NoteResponse, error) {
	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NoteResponse{}, domain.ErrUserNotFound
		}
		return domain.NoteResponse{}, err
	}

	return domain.NoteResponse{Note: found.Note}, nil
}

func (s *userService) authResponse(u *entities.User) domain.AuthResponse {
	return domain.AuthResponse{
		Token:    s.jwtService.GenerateTokenUser(u.ID.String(), u.Role),
		UserID:   u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		IsGuest:  u.IsGuest,
	}
}
