package models

import (
	"time"

	"github.com/parkeasy/booking-service/internal/domain"
)

// LotResponse модель парковки для внешнего слоя.
// availableSlots и carsParked оба присутствуют для совместимости,
// но считаются из одного хранимого счетчика.
type LotResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Address        *string   `json:"address,omitempty"`
	City           *string   `json:"city,omitempty"`
	TotalSlots     int       `json:"totalSlots"`
	AvailableSlots int       `json:"availableSlots"`
	CarsParked     int       `json:"carsParked"`
	PricePerHour   float64   `json:"pricePerHour"`
	OwnerUserID    *int64    `json:"ownerUserId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// LotListResponse список парковок
type LotListResponse struct {
	Lots []*LotResponse `json:"lots"`
}

// CreateLotRequest регистрация парковки владельцем
type CreateLotRequest struct {
	CallerID     int64
	Role         string
	Name         string
	Address      *string
	City         *string
	TotalSlots   int
	PricePerHour float64
}

// UpdateLotRequest редактирование парковки владельцем
type UpdateLotRequest struct {
	CallerID     int64
	Role         string
	Name         string
	TotalSlots   int
	PricePerHour float64
}

// FromDomainLot конвертирует domain.ParkingLot в response-модель
func FromDomainLot(l *domain.ParkingLot) *LotResponse {
	return &LotResponse{
		ID:             l.ID,
		Name:           l.Name,
		Address:        l.Address,
		City:           l.City,
		TotalSlots:     l.TotalSlots,
		AvailableSlots: l.AvailableSlots(),
		CarsParked:     l.CarsParked,
		PricePerHour:   l.PricePerHour,
		OwnerUserID:    l.OwnerUserID,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// FromDomainLotList конвертирует список парковок
func FromDomainLotList(list []*domain.ParkingLot) *LotListResponse {
	out := make([]*LotResponse, 0, len(list))
	for _, l := range list {
		out = append(out, FromDomainLot(l))
	}
	return &LotListResponse{Lots: out}
}
