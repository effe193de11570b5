package services

import (
	"context"
	"sync"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
)

// fakeSource es una fuente de mercado controlable desde los tests.
// Si gate != nil, cada llamada espera a recibir su respuesta por el canal.
// Con detailReplies, cada llamada de detalle publica su propio canal de respuesta.
type fakeSource struct {
	mutex   sync.Mutex
	coins   []models.CoinRecord
	err     error
	details map[string]*models.CoinDetail
	calls   int

	listGate      chan listResult
	detailGate    map[string]chan *models.CoinDetail
	detailReplies chan chan *models.CoinDetail
}

type listResult struct {
	coins []models.CoinRecord
	err   error
}

func (f *fakeSource) ListCoins(ctx context.Context) ([]models.CoinRecord, error) {
	f.mutex.Lock()
	f.calls++
	gate := f.listGate
	coins, err := f.coins, f.err
	f.mutex.Unlock()

	if gate != nil {
		select {
		case r := <-gate:
			return r.coins, r.err
		case <-ctx.Done():
			return nil, &FetchError{Err: ctx.Err()}
		}
	}
	return coins, err
}

func (f *fakeSource) GetCoinDetail(ctx context.Context, coinID string) *models.CoinDetail {
	f.mutex.Lock()
	gate := f.detailGate[coinID]
	detail := f.details[coinID]
	replies := f.detailReplies
	f.mutex.Unlock()

	if replies != nil {
		reply := make(chan *models.CoinDetail)
		replies <- reply
		return <-reply
	}

	if gate != nil {
		return <-gate
	}
	return detail
}

func (f *fakeSource) set(coins []models.CoinRecord, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.coins, f.err = coins, err
}

func (f *fakeSource) callCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls
}
