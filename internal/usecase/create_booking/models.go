package create_booking

import (
	"time"

	"github.com/parkeasy/booking-service/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64              // ID пользователя (из auth-коллаборатора)
	ParkingLotID  int64              // ID парковки
	VehicleType   domain.VehicleType // car | bike | truck | van
	VehicleNumber string             // Госномер, свободный текст
	StartTime     time.Time          // Начало окна бронирования
	EndTime       time.Time          // Конец окна бронирования
	DurationHours *float64           // Длительность в часах; nil = вывести из окна
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           int64
	UserID       int64
	ParkingLotID int64

	// Снапшот данных лота на момент создания
	ParkingLotName string
	PricePerHour   float64

	VehicleType   string
	VehicleNumber string

	StartTime     time.Time
	EndTime       time.Time
	DurationHours float64
	TotalPrice    float64

	Status        string
	PaymentStatus string

	CreatedAt time.Time
	UpdatedAt time.Time
}
