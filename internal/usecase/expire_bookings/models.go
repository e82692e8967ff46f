package expire_bookings

// Result итог одного прохода expiration sweep
type Result struct {
	UpdatedCount int // сколько бронирований переведено в expired
	ErrorCount   int // сколько бронирований не удалось обработать
}
