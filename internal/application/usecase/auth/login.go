package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/domain/user"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/auth"
	"github.com/khoahotran/career-studio/pkg/logger"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password so
// the response never tells which one it was.
var ErrInvalidCredentials = errors.New("email or password is incorrect")

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	OwnerID     string
	AccessToken string
	ExpiresAt   time.Time
}

var tracer = otel.Tracer("auth_usecase")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	fail := func(err error) (*LoginOutput, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}

	log := logger.FromContext(ctx, uc.logger)
	u, err := uc.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		auth.BurnPasswordCheck(input.Password)
		return fail(apperror.NewUnauthorized(ErrInvalidCredentials.Error(), err))
	case err != nil:
		log.Error("Failed to look up owner", err)
		return fail(apperror.NewInternal("failed to look up user", err))
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		return fail(apperror.NewUnauthorized(ErrInvalidCredentials.Error(), nil))
	}

	token, err := uc.jwtSvc.IssueToken(u.ID)
	if err != nil {
		log.Error("Failed to issue token", err, zap.String("owner_id", u.ID.String()))
		return fail(apperror.NewInternal("failed to issue token", err))
	}

	span.SetAttributes(attribute.String("owner_id", u.ID.String()))
	return &LoginOutput{
		OwnerID:     u.ID.String(),
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}
