package models

import (
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

// Request модели

// CreateCourtRequest запрос на создание корта
type CreateCourtRequest struct {
	UserID     int64   `json:"userId"`
	ClubID     int64   `json:"clubId"`
	Name       string  `json:"name"`
	Sport      string  `json:"sport"`      // padel, tennis, squash
	Capacity   int     `json:"capacity"`   // Максимум игроков
	HourlyRate float64 `json:"hourlyRate"` // Почасовая ставка
}

// UpdateCourtStatusRequest запрос на смену статуса корта
type UpdateCourtStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"` // active, maintenance
}

// ListCourtsRequest запрос на список кортов клуба
type ListCourtsRequest struct {
	ClubID int64   `json:"clubId"`
	Sport  *string `json:"sport,omitempty"` // Фильтр по виду спорта (опционально)
}

// UpdateSettingsRequest запрос на обновление настроек клуба
// Все поля опциональны - обновляются только переданные значения,
// остальные берутся из текущих настроек или из дефолтов
type UpdateSettingsRequest struct {
	UserID                 int64    `json:"userId"`
	OpenTime               *string  `json:"openTime,omitempty"`  // "08:00"
	CloseTime              *string  `json:"closeTime,omitempty"` // "23:00"
	SlotGranularityMinutes *int     `json:"slotGranularityMinutes,omitempty"`
	SessionDurationMinutes *int     `json:"sessionDurationMinutes,omitempty"`
	AdvanceBookingDays     *int     `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
	CancellationFeeRate    *float64 `json:"cancellationFeeRate,omitempty"`
}

// Response модели

// CourtResponse ответ с данными корта
type CourtResponse struct {
	ID         int64     `json:"id"`
	ClubID     int64     `json:"clubId"`
	Name       string    `json:"name"`
	Sport      string    `json:"sport"`
	CourtType  string    `json:"courtType"` // single, double
	Capacity   int       `json:"capacity"`
	HourlyRate float64   `json:"hourlyRate"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CourtListResponse ответ со списком кортов
type CourtListResponse struct {
	Courts []CourtResponse `json:"courts"`
}

// SettingsResponse ответ с настройками клуба
type SettingsResponse struct {
	ClubID                 int64   `json:"clubId"`
	OpenTime               string  `json:"openTime"`
	CloseTime              string  `json:"closeTime"`
	SlotGranularityMinutes int     `json:"slotGranularityMinutes"`
	SessionDurationMinutes int     `json:"sessionDurationMinutes"`
	AdvanceBookingDays     int     `json:"advanceBookingDays"`
	CancellationFeeRate    float64 `json:"cancellationFeeRate"`
}

// Методы конвертации

// FromDomainCourt конвертирует domain модель в DTO
func FromDomainCourt(c *domain.Court) *CourtResponse {
	if c == nil {
		return nil
	}

	return &CourtResponse{
		ID:         c.ID,
		ClubID:     c.ClubID,
		Name:       c.Name,
		Sport:      string(c.Sport),
		CourtType:  string(c.Type()),
		Capacity:   c.Capacity,
		HourlyRate: c.HourlyRate,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// FromDomainCourtList конвертирует список domain моделей в DTO
func FromDomainCourtList(courts []*domain.Court) *CourtListResponse {
	resp := &CourtListResponse{
		Courts: make([]CourtResponse, 0, len(courts)),
	}

	for _, c := range courts {
		resp.Courts = append(resp.Courts, *FromDomainCourt(c))
	}

	return resp
}

// FromDomainSettings конвертирует настройки клуба в DTO
func FromDomainSettings(s *domain.ClubSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	return &SettingsResponse{
		ClubID:                 s.ClubID,
		OpenTime:               s.OpenTime.String(),
		CloseTime:              s.CloseTime.String(),
		SlotGranularityMinutes: s.SlotGranularityMinutes,
		SessionDurationMinutes: s.SessionDurationMinutes,
		AdvanceBookingDays:     s.AdvanceBookingDays,
		CancellationFeeRate:    s.CancellationFeeRate,
	}
}

// ApplyToDomain накладывает переданные поля запроса на текущие настройки
func (r *UpdateSettingsRequest) ApplyToDomain(current *domain.ClubSettings) error {
	if r.OpenTime != nil {
		openTime, err := types.NewTimeStringFromString(*r.OpenTime)
		if err != nil {
			return err
		}
		current.OpenTime = openTime
	}

	if r.CloseTime != nil {
		closeTime, err := types.NewTimeStringFromString(*r.CloseTime)
		if err != nil {
			return err
		}
		current.CloseTime = closeTime
	}

	if r.SlotGranularityMinutes != nil {
		current.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}

	if r.SessionDurationMinutes != nil {
		current.SessionDurationMinutes = *r.SessionDurationMinutes
	}

	if r.AdvanceBookingDays != nil {
		current.AdvanceBookingDays = *r.AdvanceBookingDays
	}

	if r.CancellationFeeRate != nil {
		current.CancellationFeeRate = *r.CancellationFeeRate
	}

	return nil
}
