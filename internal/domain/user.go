package domain

import "time"

// User зарегистрированный владелец RFID метки
type User struct {
	ID    int64
	Name  string
	Email string
	// UID метка карты, уникальна среди пользователей
	UID       string
	CreatedAt time.Time
}
