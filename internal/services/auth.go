package services

import (
	"queue-system/internal/dto"
	apperrors "queue-system/pkg/errors"
	"queue-system/pkg/service"
	"queue-system/pkg/utils"

	"go.uber.org/zap"
)

// ID оператора в токене. Учётных записей нет: доступ к управлению очередью
// защищён одним общим PIN-кодом на всю инсталляцию.
const sharedOperatorID = 1

type AuthServiceInterface interface {
	Login(pin string) (dto.TokenPairDTO, error)
}

type authService struct {
	pinHash string
	jwtSvc  service.JWTService
	logger  *zap.Logger
}

// NewAuthService принимает bcrypt-хеш PIN-кода. Если хеш не задан в
// окружении, он считается от PIN по умолчанию при старте.
func NewAuthService(pin, pinHash string, jwtSvc service.JWTService, logger *zap.Logger) (AuthServiceInterface, error) {
	if pinHash == "" {
		var err error
		pinHash, err = utils.HashPassword(pin)
		if err != nil {
			return nil, err
		}
	}
	return &authService{pinHash: pinHash, jwtSvc: jwtSvc, logger: logger}, nil
}

func (s *authService) Login(pin string) (dto.TokenPairDTO, error) {
	if err := utils.CheckPasswordHash(pin, s.pinHash); err != nil {
		s.logger.Warn("неудачная попытка входа по PIN")
		return dto.TokenPairDTO{}, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtSvc.GenerateTokens(sharedOperatorID)
	if err != nil {
		return dto.TokenPairDTO{}, err
	}
	return dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
