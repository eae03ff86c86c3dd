package expire_bookings

// Response итог прогона очистки
type Response struct {
	Expired int // переведены в completed
	Skipped int // изменились параллельно, пропущены
	Failed  int // ошибки хранилища
}
