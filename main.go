package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"docreel/api"
	"docreel/common"
	"docreel/config"
	"docreel/extractor"
	"docreel/logging"
	"docreel/media"
	"docreel/music"
	"docreel/script"
	"docreel/speech"
	"docreel/stock"
	"docreel/transcribe"
	"docreel/types"
	"docreel/video"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfgPath := os.Getenv("DOCREEL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := os.MkdirAll(cfg.Paths.Temp, 0755); err != nil {
		log.Fatal("failed to create temp dir", zap.String("dir", cfg.Paths.Temp), zap.Error(err))
	}
	if n, err := types.SweepJobs(cfg.Paths.Temp); err != nil {
		log.Warn("failed to sweep stale job files", zap.String("dir", cfg.Paths.Temp), zap.Error(err))
	} else if n > 0 {
		log.Info("removed stale job files", zap.Int("count", n))
	}

	router := api.NewRouter(api.Services{
		Extractor: extractor.New(log.Named("extractor")),
		Scripts:   script.NewGenerator(script.NewDefaultChatProvider(cfg), log.Named("script")),
		Videos:    newAssembler(cfg, log),
		TempDir:   cfg.Paths.Temp,
		Log:       log.Named("api"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting API server",
			zap.String("addr", srv.Addr),
			zap.String("script_provider", cfg.Script.Provider),
			zap.Strings("endpoints", []string{
				"GET  /api/health",
				"POST /upload",
				"POST /generate-script",
				"POST /create-video",
				"GET  /download/:filename",
			}))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down, waiting for in-flight renders", zap.Duration("timeout", config.ShutdownTimeout))
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

func newAssembler(cfg *config.Config, log *zap.Logger) *video.Assembler {
	return video.NewAssembler(
		speech.NewAzureSynthesizer(cfg.Speech),
		speech.Voices{Default: cfg.Speech.DefaultVoice, Documentary: cfg.Speech.DocumentaryVoice},
		transcribe.NewWhisper(cfg.OpenAI, log.Named("transcribe")),
		stock.NewPexels(cfg.Pexels, log.Named("stock")),
		music.NewProvider(cfg.Music.Tracks, initializeS3(cfg, log), log.Named("music")),
		media.NewFFmpeg(log.Named("ffmpeg")),
		video.Options{Threads: cfg.Render.Threads, KeepIntermediates: cfg.Render.KeepIntermediates},
		log.Named("video"),
	)
}

// initializeS3 returns an S3 client only when a music track lives in a
// bucket. A nil result disables s3:// tracks.
func initializeS3(cfg *config.Config, log *zap.Logger) music.ObjectGetter {
	needed := false
	for _, src := range cfg.Music.Tracks {
		if strings.HasPrefix(src, "s3://") {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := common.NewS3(ctx, common.S3Config{
		Region:       cfg.S3.Region,
		Profile:      cfg.S3.Profile,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		log.Warn("failed to init S3 client, s3:// music tracks disabled", zap.Error(err))
		return nil
	}
	return client
}
