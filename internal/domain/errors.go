package domain

import "errors"

// Категории ошибок. Ошибки пакетов оборачивают ровно одну из них,
// по ней HTTP-слой выбирает код ответа
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
