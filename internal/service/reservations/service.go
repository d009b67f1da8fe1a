package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	reservationRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/reservation"
	"github.com/totalboostmarketing/reservation-system/internal/service/reservations/models"
)

// Service сервис чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(reservationRepo ReservationRepository, settings SettingsProvider, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		settings:        settings,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// GetByCancelToken возвращает бронирование для страницы клиента.
// Токен отмены выступает единственным доступом к бронированию.
func (s *Service) GetByCancelToken(ctx context.Context, token string) (*models.PublicReservationResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	reservation, err := s.reservationRepo.GetByCancelToken(ctx, token)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByCancelToken: reservation not found")
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByCancelToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByCancelToken - repository error: %v", ErrInternal, err)
	}

	settings, err := s.settings.Resolve(ctx)
	if err != nil {
		s.logger.Error("GetByCancelToken: failed to resolve settings: %v", err)
		return nil, fmt.Errorf("%w: GetByCancelToken - settings: %v", ErrInternal, err)
	}

	s.logger.Info("GetByCancelToken: fetched reservation id=%d", reservation.ID)
	return models.FromDomainPublic(reservation, settings, s.timeProvider.Now()), nil
}

// GetByID получает бронирование вместе с журналом изменений
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationDetailsResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d", id)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	logs, err := s.reservationRepo.ListAuditLogs(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to load audit logs for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - audit logs: %v", ErrInternal, err)
	}

	return &models.ReservationDetailsResponse{
		ReservationResponse: *models.FromDomainReservation(reservation),
		AuditLogs:           models.FromDomainAuditLogs(logs),
	}, nil
}

// List получает бронирования с фильтрацией по салону, мастеру, меню, статусу и периоду
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		s.logger.Warn("List: invalid period %s - %s", filter.From, filter.To)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d reservations (limit=%d offset=%d)", len(reservations), filter.Limit, filter.Offset)
	return models.FromDomainReservationList(reservations, filter.Limit, filter.Offset), nil
}
