package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/AgusMolinaCode/cryptotracker/internal/observability"
)

// MarketUpdater es un servicio que actualiza el listado de mercado periódicamente.
// Las actualizaciones pueden solaparse: la que termina última sobrescribe el estado.
type MarketUpdater struct {
	interval time.Duration
	source   MarketDataSource
	metrics  *observability.Metrics

	mutex       sync.Mutex
	isRunning   bool
	cancel      context.CancelFunc
	done        chan struct{}
	coins       []models.CoinRecord
	inFlight    int
	lastError   string
	lastUpdated time.Time
	listeners   []func(models.MarketSnapshot)
}

// NewMarketUpdater crea un nuevo servicio de actualización del mercado
func NewMarketUpdater(source MarketDataSource, interval time.Duration, metrics *observability.Metrics) *MarketUpdater {
	return &MarketUpdater{
		interval: interval,
		source:   source,
		metrics:  metrics,
	}
}

// OnUpdate registra una función que se llama tras cada actualización exitosa
func (u *MarketUpdater) OnUpdate(fn func(models.MarketSnapshot)) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.listeners = append(u.listeners, fn)
}

// Start inicia la actualización periódica. Actualiza inmediatamente al iniciar.
func (u *MarketUpdater) Start(ctx context.Context) {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	if u.isRunning {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	u.isRunning = true
	u.cancel = cancel
	u.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		u.Refresh(ctx)

		for {
			select {
			case <-ticker.C:
				u.Refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}(u.done)

	log.Printf("Servicio de actualización del mercado iniciado con intervalo de %v", u.interval)
}

// Stop detiene la actualización periódica y espera a que termine la tarea
func (u *MarketUpdater) Stop() {
	u.mutex.Lock()
	if !u.isRunning {
		u.mutex.Unlock()
		return
	}
	u.isRunning = false
	u.cancel()
	done := u.done
	u.mutex.Unlock()

	<-done
	log.Printf("Servicio de actualización del mercado detenido")
}

// Refresh consulta el listado una vez. Ante un error se conservan las monedas anteriores.
// Una consulta cancelada (Stop o el cliente se desconectó) no se registra como error.
func (u *MarketUpdater) Refresh(ctx context.Context) error {
	u.mutex.Lock()
	u.inFlight++
	u.lastError = ""
	u.mutex.Unlock()

	start := time.Now()
	coins, err := u.source.ListCoins(ctx)

	if errors.Is(err, context.Canceled) {
		u.mutex.Lock()
		u.inFlight--
		u.mutex.Unlock()
		log.Printf("Actualización del mercado cancelada: %v", err)
		return err
	}
	u.metrics.ObserveRefresh(time.Since(start), err)

	u.mutex.Lock()
	u.inFlight--
	if err != nil {
		u.lastError = err.Error()
		kept := len(u.coins)
		u.mutex.Unlock()
		log.Printf("Error al actualizar el mercado, se conservan %d monedas: %v", kept, err)
		return err
	}

	u.coins = coins
	u.lastError = ""
	u.lastUpdated = time.Now()
	u.metrics.SetCoinsTracked(len(coins))
	snapshot := u.snapshotLocked()
	listeners := append([]func(models.MarketSnapshot){}, u.listeners...)
	u.mutex.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

// State devuelve una copia del estado actual del mercado
func (u *MarketUpdater) State() models.MarketState {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	coins := make([]models.CoinRecord, len(u.coins))
	copy(coins, u.coins)

	return models.MarketState{
		Coins:       coins,
		Loading:     u.inFlight > 0,
		Error:       u.lastError,
		LastUpdated: u.lastUpdated,
	}
}

// Coins devuelve una copia del último listado obtenido
func (u *MarketUpdater) Coins() []models.CoinRecord {
	return u.State().Coins
}

// Snapshot devuelve el último listado con su resumen
func (u *MarketUpdater) Snapshot() models.MarketSnapshot {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	return u.snapshotLocked()
}

func (u *MarketUpdater) snapshotLocked() models.MarketSnapshot {
	coins := make([]models.CoinRecord, len(u.coins))
	copy(coins, u.coins)
	summary, _ := SummarizeMarket(coins)

	return models.MarketSnapshot{
		Coins:     coins,
		Summary:   summary,
		UpdatedAt: u.lastUpdated,
	}
}
