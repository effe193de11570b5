package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
)

// Claves fijas en el almacenamiento persistente
const (
	PortfolioKey = "crypto_portfolio"
	WatchlistKey = "crypto_watchlist"
)

// Cantidad y precio de compra máximos aceptados en una tenencia
const MaxHoldingValue = 1e15

// Errores comunes
var (
	ErrStateCorrupt   = errors.New("estado persistido corrupto")
	ErrInvalidHolding = errors.New("tenencia inválida")
)

// PortfolioStore es dueño de la watchlist y del portafolio durante la sesión.
// Cada mutación se persiste completa antes de retornar.
type PortfolioStore struct {
	mu        sync.Mutex
	kv        KVStore
	watchlist []string
	watched   map[string]struct{}
	holdings  []models.PortfolioHolding
	now       func() time.Time
}

// NewPortfolioStore crea un store vacío; LoadState carga el estado guardado
func NewPortfolioStore(kv KVStore) *PortfolioStore {
	return &PortfolioStore{
		kv:      kv,
		watched: make(map[string]struct{}),
		now:     time.Now,
	}
}

// SetClock reemplaza el reloj usado para la fecha de compra
func (s *PortfolioStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// LoadState lee la watchlist y el portafolio guardados. Si un blob no se puede leer o
// parsear, esa colección queda vacía y se registra el error; la otra no se ve afectada.
func (s *PortfolioStore) LoadState(ctx context.Context) ([]string, []models.PortfolioHolding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	if err := s.loadBlob(ctx, WatchlistKey, &ids); err != nil {
		log.Printf("Error al cargar la watchlist: %v", err)
		ids = nil
	}
	s.watchlist = s.watchlist[:0]
	s.watched = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := s.watched[id]; dup {
			continue
		}
		s.watched[id] = struct{}{}
		s.watchlist = append(s.watchlist, id)
	}

	var holdings []models.PortfolioHolding
	if err := s.loadBlob(ctx, PortfolioKey, &holdings); err != nil {
		log.Printf("Error al cargar el portafolio: %v", err)
		holdings = nil
	}
	s.holdings = make([]models.PortfolioHolding, 0, len(holdings))
	for i, h := range holdings {
		if err := checkBounds(h); err != nil {
			log.Printf("Tenencia %d descartada al cargar el portafolio: %v", i, err)
			continue
		}
		s.holdings = append(s.holdings, h)
	}

	log.Printf("Estado cargado: %d monedas en la watchlist, %d tenencias", len(s.watchlist), len(s.holdings))
	return s.copyWatchlist(), s.copyHoldings()
}

func (s *PortfolioStore) loadBlob(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: clave %s: %v", ErrStateCorrupt, key, err)
	}
	return nil
}

// AddHolding agrega una tenencia al final con la fecha de compra actual
func (s *PortfolioStore) AddHolding(ctx context.Context, h models.PortfolioHolding) (models.PortfolioHolding, error) {
	if h.CoinID == "" {
		return models.PortfolioHolding{}, fmt.Errorf("%w: coinId vacío", ErrInvalidHolding)
	}
	if !(h.Amount > 0) {
		return models.PortfolioHolding{}, fmt.Errorf("%w: la cantidad debe ser mayor a 0", ErrInvalidHolding)
	}
	if !(h.PurchasePrice >= 0) {
		return models.PortfolioHolding{}, fmt.Errorf("%w: el precio de compra no puede ser negativo", ErrInvalidHolding)
	}
	if err := checkBounds(h); err != nil {
		return models.PortfolioHolding{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h.PurchaseDate = s.now().UTC()
	s.holdings = append(s.holdings, h)

	return h, s.saveHoldings(ctx)
}

// checkBounds rechaza tenencias cuyos montos no se pueden valorar ni mostrar
func checkBounds(h models.PortfolioHolding) error {
	if h.Amount > MaxHoldingValue || h.PurchasePrice > MaxHoldingValue {
		return fmt.Errorf("%w: la cantidad y el precio no pueden superar %g", ErrInvalidHolding, MaxHoldingValue)
	}
	cost := h.CostBasis()
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("%w: el costo de la tenencia no es un número finito", ErrInvalidHolding)
	}
	return nil
}

// RemoveHolding elimina la tenencia en la posición indicada. Un índice fuera de rango no hace nada.
func (s *PortfolioStore) RemoveHolding(ctx context.Context, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.holdings) {
		return false, nil
	}

	next := make([]models.PortfolioHolding, 0, len(s.holdings)-1)
	next = append(next, s.holdings[:index]...)
	next = append(next, s.holdings[index+1:]...)
	s.holdings = next

	return true, s.saveHoldings(ctx)
}

// ToggleWatchlist agrega o quita la moneda y devuelve si quedó en la watchlist
func (s *PortfolioStore) ToggleWatchlist(ctx context.Context, coinID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	watched := false
	if _, ok := s.watched[coinID]; ok {
		delete(s.watched, coinID)
		next := make([]string, 0, len(s.watchlist))
		for _, id := range s.watchlist {
			if id != coinID {
				next = append(next, id)
			}
		}
		s.watchlist = next
	} else {
		s.watched[coinID] = struct{}{}
		s.watchlist = append(s.watchlist, coinID)
		watched = true
	}

	return watched, s.saveWatchlist(ctx)
}

// IsWatched indica si la moneda está en la watchlist
func (s *PortfolioStore) IsWatched(coinID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.watched[coinID]
	return ok
}

// Watchlist devuelve una copia de la watchlist en orden de inserción
func (s *PortfolioStore) Watchlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyWatchlist()
}

// Holdings devuelve una copia de las tenencias en orden de inserción
func (s *PortfolioStore) Holdings() []models.PortfolioHolding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyHoldings()
}

func (s *PortfolioStore) copyWatchlist() []string {
	out := make([]string, len(s.watchlist))
	copy(out, s.watchlist)
	return out
}

func (s *PortfolioStore) copyHoldings() []models.PortfolioHolding {
	out := make([]models.PortfolioHolding, len(s.holdings))
	copy(out, s.holdings)
	return out
}

func (s *PortfolioStore) saveHoldings(ctx context.Context) error {
	holdings := s.holdings
	if holdings == nil {
		holdings = []models.PortfolioHolding{}
	}
	return s.saveBlob(ctx, PortfolioKey, holdings)
}

func (s *PortfolioStore) saveWatchlist(ctx context.Context) error {
	return s.saveBlob(ctx, WatchlistKey, s.copyWatchlist())
}

func (s *PortfolioStore) saveBlob(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error al serializar %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("error al persistir %s: %w", key, err)
	}
	return nil
}
