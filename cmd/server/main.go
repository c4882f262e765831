package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-gallery/internal/api"
	"photo-gallery/internal/config"
	"photo-gallery/internal/database"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/middleware"
	"photo-gallery/internal/seed"
	"photo-gallery/internal/session"
	"photo-gallery/internal/simulate"
	"photo-gallery/internal/ws"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Printf("Warning: unknown LOG_LEVEL %q, keeping %s", cfg.LogLevel, log.GetLevel())
	}

	activity, err := database.OpenActivityLog(cfg.ActivityDBPath)
	if err != nil {
		log.Fatalf("Failed to open activity log: %v", err)
	}
	defer activity.Close()

	var snapshots *database.SnapshotStore
	if cfg.SnapshotDriver != "" {
		snapshots, err = database.OpenSnapshotStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		defer snapshots.Close()
	}

	svc := loadService(cfg, snapshots)
	svc.ShareBaseURL = cfg.ShareBaseURL
	svc.QRBaseURL = cfg.QRBaseURL
	svc.Recorder = activity

	hub := ws.NewHub()
	go hub.Run()
	svc.Notifier = hub

	usage := svc.Usage()
	metrics.SetStorage(usage.UsedMB, usage.TotalGB)

	processor := simulate.NewProcessor(map[simulate.Action]time.Duration{
		simulate.ActionLogin:          cfg.LoginDelay,
		simulate.ActionGalleryPayment: cfg.GalleryPaymentDelay,
		simulate.ActionItemPayment:    cfg.ItemPaymentDelay,
		simulate.ActionPayout:         cfg.PayoutDelay,
		simulate.ActionStorageUpgrade: cfg.StorageUpgradeDelay,
	})

	stop := make(chan struct{})
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerSec, cfg.LoginBurst)
	loginLimiter.StartCleanup(10*time.Minute, stop)

	r := gin.Default()
	r.Use(metrics.Middleware())

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	handlers := api.NewHandlers(svc, session.NewManager(), processor)
	handlers.Register(r.Group("/api"), loginLimiter.Handler())
	r.GET("/ws", api.RequireSession(handlers.Sessions), api.LiveUpdates(hub))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("starting graceful shutdown")
	close(stop)

	// in-flight payments may still be sleeping out their delay
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if snapshots != nil {
		if err := snapshots.Save(ctx, svc.Snapshot()); err != nil {
			log.Printf("snapshot save error: %v", err)
		} else {
			log.Println("Gallery snapshot saved")
		}
	}
	log.Println("graceful shutdown complete")
}

// loadService restores the last snapshot, falling back to the demo gallery or
// an empty store.
func loadService(cfg *config.Config, snapshots *database.SnapshotStore) *gallery.Service {
	if snapshots != nil {
		snap, err := snapshots.Load(context.Background())
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}
		if !snap.Empty() {
			log.WithFields(log.Fields{"folders": len(snap.Folders), "media": len(snap.Media)}).Info("Restored gallery snapshot")
			return gallery.FromSnapshot(snap)
		}
	}

	if cfg.SeedDemo {
		log.Println("Loading demo gallery")
		r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		return gallery.FromSnapshot(seed.Demo(r, time.Now(), cfg.StorageTotalGB))
	}
	return gallery.FromSnapshot(gallery.Snapshot{TotalGB: cfg.StorageTotalGB})
}
