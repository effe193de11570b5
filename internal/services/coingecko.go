package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
)

// ErrNetwork indica que el listado de mercado no se pudo obtener
var ErrNetwork = errors.New("error de red al consultar el mercado")

// FetchError describe una falla del listado: transporte (StatusCode 0) o estado HTTP no exitoso
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("error en la petición HTTP: %v", e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// MarketDataSource es la fuente externa de datos de mercado
type MarketDataSource interface {
	// ListCoins devuelve el listado de monedas o un *FetchError
	ListCoins(ctx context.Context) ([]models.CoinRecord, error)
	// GetCoinDetail devuelve nil ante cualquier falla
	GetCoinDetail(ctx context.Context, coinID string) *models.CoinDetail
}

// CoinGeckoClient implementa MarketDataSource contra la API pública de CoinGecko
type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cacheTTL   time.Duration

	mutex       sync.Mutex
	detailCache map[string]cachedDetail
	now         func() time.Time
}

// Caché para almacenar detalles y reducir llamadas a la API
type cachedDetail struct {
	Detail    *models.CoinDetail
	Timestamp time.Time
}

// NewCoinGeckoClient crea un cliente; cacheTTL 0 desactiva la caché de detalles
func NewCoinGeckoClient(baseURL, apiKey string, timeout, cacheTTL time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
		cacheTTL:    cacheTTL,
		detailCache: make(map[string]cachedDetail),
		now:         time.Now,
	}
}

// ListCoins obtiene las 100 primeras monedas por capitalización en USD
func (c *CoinGeckoClient) ListCoins(ctx context.Context) ([]models.CoinRecord, error) {
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("order", "market_cap_desc")
	query.Set("per_page", "100")
	query.Set("page", "1")
	query.Set("sparkline", "false")
	query.Set("locale", "en")

	body, err := c.get(ctx, "/coins/markets", query)
	if err != nil {
		log.Printf("Error al obtener el listado de monedas: %v", err)
		return nil, err
	}

	var coins []models.CoinRecord
	if err := json.Unmarshal(body, &coins); err != nil {
		log.Printf("Error al parsear JSON del listado: %v", err)
		return nil, &FetchError{Err: fmt.Errorf("error decodificando JSON: %w", err)}
	}

	return coins, nil
}

// GetCoinDetail obtiene el detalle de una moneda. Devuelve nil si falla.
func (c *CoinGeckoClient) GetCoinDetail(ctx context.Context, coinID string) *models.CoinDetail {
	// Verificar si tenemos el detalle en caché y si es reciente
	if detail := c.cachedDetail(coinID); detail != nil {
		return detail
	}

	query := url.Values{}
	query.Set("localization", "false")
	query.Set("tickers", "false")
	query.Set("market_data", "true")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")
	query.Set("sparkline", "false")

	body, err := c.get(ctx, "/coins/"+url.PathEscape(coinID), query)
	if err != nil {
		log.Printf("Error al obtener el detalle de %s: %v", coinID, err)
		return nil
	}

	var detail models.CoinDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		log.Printf("Error al parsear JSON del detalle de %s: %v", coinID, err)
		return nil
	}

	if c.cacheTTL > 0 {
		c.mutex.Lock()
		c.detailCache[coinID] = cachedDetail{Detail: &detail, Timestamp: c.now()}
		c.mutex.Unlock()
	}

	return &detail
}

func (c *CoinGeckoClient) cachedDetail(coinID string) *models.CoinDetail {
	if c.cacheTTL <= 0 {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached, exists := c.detailCache[coinID]
	if !exists {
		return nil
	}
	if c.now().Sub(cached.Timestamp) >= c.cacheTTL {
		delete(c.detailCache, coinID)
		return nil
	}
	return cached.Detail
}

func (c *CoinGeckoClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Descartar el cuerpo para reutilizar la conexión
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("error leyendo respuesta: %w", err)}
	}
	return body, nil
}
