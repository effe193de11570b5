package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AgusMolinaCode/cryptotracker/internal/config"
	"github.com/AgusMolinaCode/cryptotracker/internal/database"
	"github.com/AgusMolinaCode/cryptotracker/internal/middleware"
	"github.com/AgusMolinaCode/cryptotracker/internal/observability"
	"github.com/AgusMolinaCode/cryptotracker/internal/repository"
	routes "github.com/AgusMolinaCode/cryptotracker/internal/server"
	"github.com/AgusMolinaCode/cryptotracker/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Cargar variables de entorno
	if err := godotenv.Load(); err != nil {
		log.Printf("No se pudo cargar el archivo .env: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializar el almacenamiento persistente
	kv, closeStore := openStore(cfg)
	defer closeStore()

	store := repository.NewPortfolioStore(kv)
	store.LoadState(ctx)

	metrics := observability.NewMetrics()
	source := services.NewCoinGeckoClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.HTTPTimeout, cfg.DetailCacheTTL)

	feed := services.NewLiveFeed(cfg.AllowedOrigins, metrics)
	defer feed.Shutdown()

	// Iniciar el servicio de actualización del mercado
	updater := services.NewMarketUpdater(source, cfg.RefreshInterval, metrics)
	updater.OnUpdate(feed.Broadcast)
	updater.Start(ctx)
	defer updater.Stop()

	handler := middleware.NewHandler(updater, store, services.NewDetailView(source, metrics), feed, metrics)

	// Crear el router de Gin
	router := gin.Default()

	// Configurar CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(corsConfig))

	// Configurar las rutas
	routes.RegisterRoutes(router, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Servidor escuchando en el puerto %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error al iniciar el servidor: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Apagando el servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error al apagar el servidor: %v", err)
	}
}

// openStore abre el almacenamiento clave-valor según STORE_DRIVER
func openStore(cfg config.Config) (repository.KVStore, func()) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Printf("Usando almacenamiento en memoria: los datos no se conservan al reiniciar")
		return repository.NewMemoryStore(), func() {}
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Error al inicializar la base de datos: %v", err)
	}

	return repository.NewSQLStore(db, cfg.StoreDriver), func() { db.Close() }
}
