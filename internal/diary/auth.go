package diary

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"diary/internal/errs"
)

// Register creates an account. The password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, username, password string) error {
	const op = "Register"
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return s.fail(op, username, errs.E(op, errs.ErrValidation, "username and password are required"))
	}
	hash, err := s.hash(op, password)
	if err != nil {
		return s.fail(op, username, err)
	}
	if err := s.repo.CreateUser(ctx, username, hash); err != nil {
		return s.fail(op, username, err)
	}
	s.log.Info("user registered", zap.String("user", username))
	return nil
}

// Authenticate checks a password. An unknown user is errs.ErrNotFound and a
// wrong password is errs.ErrIntegrity.
func (s *Service) Authenticate(ctx context.Context, username, password string) error {
	const op = "Authenticate"
	u, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return s.fail(op, username, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return s.fail(op, username, errs.E(op, errs.ErrIntegrity, "invalid credentials"))
		}
		return s.fail(op, username, errs.Wrap(op, errs.ErrIntegrity, err))
	}
	return nil
}

// ChangePassword replaces the password after verifying the old one. The new
// password must be entered twice.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error {
	const op = "ChangePassword"
	if newPassword == "" {
		return s.fail(op, username, errs.E(op, errs.ErrValidation, "new password is required"))
	}
	if newPassword != confirm {
		return s.fail(op, username, errs.E(op, errs.ErrIntegrity, "new passwords do not match"))
	}
	if err := s.Authenticate(ctx, username, oldPassword); err != nil {
		return err
	}
	hash, err := s.hash(op, newPassword)
	if err != nil {
		return s.fail(op, username, err)
	}
	if err := s.repo.UpdatePassword(ctx, username, hash); err != nil {
		return s.fail(op, username, err)
	}
	s.log.Info("password changed", zap.String("user", username))
	return nil
}

// DeleteAccount removes the user together with its theme, categories and tasks.
func (s *Service) DeleteAccount(ctx context.Context, username string) error {
	if err := s.repo.DeleteUser(ctx, username); err != nil {
		return s.fail("DeleteAccount", username, err)
	}
	s.log.Info("user deleted", zap.String("user", username))
	return nil
}

func (s *Service) hash(op, password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errs.Wrap(op, errs.ErrValidation, err)
		}
		return "", err
	}
	return string(h), nil
}
