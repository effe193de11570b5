package services

import (
	"context"
	"log"
	"sync"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/AgusMolinaCode/cryptotracker/internal/observability"
)

// DetailView mantiene la vista de detalle abierta. Solo se aplica el detalle de la última
// apertura; cualquier resultado anterior se descarta aunque sea de la misma moneda.
type DetailView struct {
	source  MarketDataSource
	metrics *observability.Metrics

	mutex   sync.Mutex
	open    bool
	seq     uint64
	coinID  string
	loading bool
	detail  *models.CoinDetail
}

// NewDetailView crea una vista de detalle cerrada
func NewDetailView(source MarketDataSource, metrics *observability.Metrics) *DetailView {
	return &DetailView{source: source, metrics: metrics}
}

// Open abre la vista para coinID y pide el detalle en segundo plano.
// El canal devuelto se cierra cuando el resultado se aplicó o se descartó.
func (v *DetailView) Open(ctx context.Context, coinID string) <-chan struct{} {
	v.mutex.Lock()
	v.seq++
	seq := v.seq
	v.open = true
	v.coinID = coinID
	v.loading = true
	v.detail = nil
	v.mutex.Unlock()

	// La vista vive más que la petición que la abrió
	fetchCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		detail := v.source.GetCoinDetail(fetchCtx, coinID)
		v.apply(seq, coinID, detail)
	}()

	return done
}

func (v *DetailView) apply(seq uint64, coinID string, detail *models.CoinDetail) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.open || v.seq != seq {
		log.Printf("Detalle de %s descartado: la vista abierta es %q", coinID, v.coinID)
		v.metrics.IncStaleDetail()
		return
	}

	v.loading = false
	v.detail = detail
	v.metrics.ObserveDetail(detail != nil)
}

// Close cierra la vista; cualquier detalle pendiente se descartará
func (v *DetailView) Close() {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.seq++
	v.open = false
	v.coinID = ""
	v.loading = false
	v.detail = nil
}

// State devuelve el estado actual de la vista
func (v *DetailView) State() models.DetailState {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	state := models.DetailState{
		CoinID:  v.coinID,
		Open:    v.open,
		Loading: v.loading,
	}
	if v.detail != nil {
		state.Available = true
		state.Detail = v.detail
		if desc, ok := v.detail.EnglishDescription(); ok {
			state.Summary = SummarizeDescription(desc)
		}
	}
	return state
}
