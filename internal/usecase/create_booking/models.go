package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	Name      string
	Email     string
	RFIDTag   string
	SlotID    int64
	StartTime time.Time
	EndTime   time.Time
}

// Response модель созданного бронирования
type Response struct {
	ID        int64
	Name      string
	Email     string
	RFIDTag   string
	SlotID    int64
	SlotLabel string
	StartTime time.Time
	EndTime   time.Time
	Status    string
	CreatedAt time.Time
}
