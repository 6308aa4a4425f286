package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/model"
	"bbexpress-api/internal/repository"
	"bbexpress-api/pkg/token"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Insert(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error
	SetDiscountEligible(ctx context.Context, id primitive.ObjectID, eligible bool) error
}

type VerificationRepository interface {
	Insert(ctx context.Context, v *model.VerificationCode) error
	FindActive(ctx context.Context, email, codeType string) (*model.VerificationCode, error)
	IncrementAttempts(ctx context.Context, id primitive.ObjectID) error
	MarkUsed(ctx context.Context, id primitive.ObjectID) error
}

var (
	ErrEmailTaken         = errors.New("ya existe una cuenta con ese correo")
	ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")
	ErrInvalidCode        = errors.New("código incorrecto o caducado")
	ErrTooManyAttempts    = errors.New("demasiados intentos, solicita un código nuevo")
)

const (
	codeLifetime    = 15 * time.Minute
	maxCodeAttempts = 3
	tokenLifetime   = 24 * time.Hour
)

type AuthService struct {
	users     UserRepository
	codes     VerificationRepository
	mail      MailService
	jwtSecret string
}

func NewAuthService(users UserRepository, codes VerificationRepository, mail MailService, jwtSecret string) *AuthService {
	return &AuthService{users: users, codes: codes, mail: mail, jwtSecret: jwtSecret}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         model.RoleUser,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// El código de verificación se envía de mejor esfuerzo: el registro no
	// falla si el correo no sale.
	if err := s.issueCode(ctx, user.Email, model.CodeEmailVerification); err != nil {
		zap.L().Warn("No se pudo emitir el código de verificación",
			zap.String("email", user.Email),
			zap.Error(err))
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	t, err := token.Generate(user.ID.Hex(), string(user.Role), s.jwtSecret, tokenLifetime)
	if err != nil {
		return "", nil, err
	}
	return t, user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req dto.UpdateProfileRequest) (*model.User, error) {
	if err := s.users.UpdateProfile(ctx, id, req.Name, req.Phone); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// issueCode genera un código de 6 dígitos con caducidad de 15 minutos. Solo
// hay un código activo por (email, tipo); el repositorio invalida anteriores.
func (s *AuthService) issueCode(ctx context.Context, email, codeType string) error {
	code := generateCode(6)

	v := &model.VerificationCode{
		Email:     email,
		Code:      code,
		Type:      codeType,
		ExpiresAt: time.Now().UTC().Add(codeLifetime),
	}
	if err := s.codes.Insert(ctx, v); err != nil {
		return err
	}

	switch codeType {
	case model.CodePasswordReset:
		return s.mail.SendResetCode(email, code)
	default:
		return s.mail.SendVerificationCode(email, code)
	}
}

// verifyCode aplica las reglas de un solo uso y 3 intentos como máximo.
func (s *AuthService) verifyCode(ctx context.Context, email, codeType, code string) error {
	v, err := s.codes.FindActive(ctx, email, codeType)
	if err != nil {
		return ErrInvalidCode
	}

	if v.Attempts >= maxCodeAttempts {
		return ErrTooManyAttempts
	}

	if v.Code != code {
		if err := s.codes.IncrementAttempts(ctx, v.ID); err != nil {
			zap.L().Warn("No se pudo registrar el intento fallido", zap.Error(err))
		}
		return ErrInvalidCode
	}

	return s.codes.MarkUsed(ctx, v.ID)
}

func (s *AuthService) VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) error {
	if err := s.verifyCode(ctx, req.Email, model.CodeEmailVerification, req.Code); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	return s.users.MarkEmailVerified(ctx, user.ID)
}

func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return err
	}
	return s.issueCode(ctx, email, model.CodeEmailVerification)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	// No se revela si la cuenta existe; si no existe, no se emite nada.
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil
	}
	return s.issueCode(ctx, email, model.CodePasswordReset)
}

func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if err := s.verifyCode(ctx, req.Email, model.CodePasswordReset, req.Code); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.FindAll(ctx)
}

func (s *AuthService) SetDiscountEligible(ctx context.Context, id primitive.ObjectID, eligible bool) error {
	return s.users.SetDiscountEligible(ctx, id, eligible)
}

func generateCode(length int) string {
	const digits = "0123456789"
	out := make([]byte, length)
	for i := range out {
		out[i] = digits[rand.Intn(len(digits))]
	}
	return string(out)
}
