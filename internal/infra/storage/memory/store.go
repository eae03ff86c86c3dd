package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Store хранилище слотов, броней и пользователей в памяти процесса.
// Сериализация по слоту обеспечивается мьютексом слота, который
// берётся в GetForUpdate и держится до конца TxManager.Do
type Store struct {
	mu       sync.RWMutex
	slots    map[int64]*domain.Slot
	bookings map[int64]*domain.Booking
	users    map[int64]*domain.User
	nextSlot int64
	nextBook int64
	nextUser int64

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		slots:    make(map[int64]*domain.Slot),
		bookings: make(map[int64]*domain.Booking),
		users:    make(map[int64]*domain.User),
		locks:    make(map[int64]*sync.Mutex),
		now:      time.Now,
	}
}

func (s *Store) slotLock(id int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

type scopeKey struct{}

// txScope набор блокировок слотов, взятых в рамках одной "транзакции"
type txScope struct {
	mu   sync.Mutex
	held map[int64]*sync.Mutex
}

func scopeFrom(ctx context.Context) *txScope {
	scope, _ := ctx.Value(scopeKey{}).(*txScope)
	return scope
}

// lockSlot берёт мьютекс слота, если вызов внутри TxManager.Do
func (s *Store) lockSlot(ctx context.Context, id int64) error {
	scope := scopeFrom(ctx)
	if scope == nil {
		return nil
	}

	scope.mu.Lock()
	_, already := scope.held[id]
	scope.mu.Unlock()
	if already {
		return nil
	}

	l := s.slotLock(id)
	acquired := make(chan struct{})
	go func() {
		l.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		// блокировка всё равно будет взята горутиной, сразу отпускаем её
		go func() {
			<-acquired
			l.Unlock()
		}()
		return ctx.Err()
	}

	scope.mu.Lock()
	scope.held[id] = l
	scope.mu.Unlock()
	return nil
}

// TxManager реализация менеджера транзакций для Store.
// Откатов нет: изменения применяются сразу, поэтому вызывающий код
// пишет только после всех проверок
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn, удерживая взятые в ней блокировки слотов до возврата
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if scopeFrom(ctx) != nil {
		return fn(ctx)
	}

	scope := &txScope{held: make(map[int64]*sync.Mutex)}
	defer func() {
		scope.mu.Lock()
		for _, l := range scope.held {
			l.Unlock()
		}
		scope.held = nil
		scope.mu.Unlock()
	}()

	return fn(context.WithValue(ctx, scopeKey{}, scope))
}

func copySlot(s *domain.Slot) *domain.Slot {
	c := *s
	return &c
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.CheckInTime != nil {
		t := *b.CheckInTime
		c.CheckInTime = &t
	}
	if b.CheckOutTime != nil {
		t := *b.CheckOutTime
		c.CheckOutTime = &t
	}
	return &c
}
