package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	authHelper "library_backend/internals/features/users/auth/helper"
	authRepo "library_backend/internals/features/users/auth/repository"
	userModel "library_backend/internals/features/users/user/model"
	"library_backend/internals/helpers/errs"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db, Now: time.Now}
}

/* ==========================
   REGISTER
========================== */

type RegisterInput struct {
	UserName  string
	Email     string
	Password1 string
	Password2 string
	Staff     bool
}

// Register validates and creates an active account. Staff is only set by
// the createstaff command, never by the public form.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*userModel.UserModel, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.TrimSpace(in.Email)

	if verr := authHelper.ValidateRegisterInput(in.UserName, in.Password1, in.Password2); verr.OrNil() != nil {
		return nil, verr
	}

	db := s.DB.WithContext(ctx)
	taken, err := authRepo.IsUsernameTaken(db, in.UserName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.Invalid("username", "A user with that username already exists.")
	}

	hash, err := HashPassword(in.Password1)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}

	user := &userModel.UserModel{
		UserName:    in.UserName,
		Password:    hash,
		IsActive:    true,
		IsStaff:     in.Staff,
		IsSuperuser: in.Staff,
	}
	if in.Email != "" {
		user.Email = &in.Email
	}
	if err := authRepo.CreateUser(db, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Invalid("username", "A user with that username already exists.")
		}
		return nil, err
	}
	log.Printf("[INFO] user registered: %s (staff=%v)", user.UserName, user.IsStaff)
	return user, nil
}

/* ==========================
   LOGIN
========================== */

// Authenticate checks credentials of an active user and records the login.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*userModel.UserModel, error) {
	db := s.DB.WithContext(ctx)

	user, err := authRepo.FindUserByUsername(db, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if err := authRepo.TouchLastLogin(db, user.ID, now.UTC()); err != nil {
		log.Printf("[WARN] last_login update failed for %d: %v", user.ID, err)
	}
	return user, nil
}

// ActiveUser loads userID and rejects deactivated accounts.
func (s *AuthService) ActiveUser(ctx context.Context, userID uint) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByID(s.DB.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, errs.ErrNotFound)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user %d is inactive: %w", userID, errs.ErrPermissionDenied)
	}
	return user, nil
}

// SetPassword replaces the password of an existing account.
func (s *AuthService) SetPassword(ctx context.Context, userID uint, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}
	return authRepo.UpdateUserPassword(s.DB.WithContext(ctx), userID, hash)
}
