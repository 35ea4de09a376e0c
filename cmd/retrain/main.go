// Command retrain runs the topic-model lifecycle: it evaluates the retrain
// policy against the live corpora and retrains the sub-models when due,
// either once or on a schedule.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	topicmind "github.com/mindloom/topicmind"
	"github.com/mindloom/topicmind/adapters"
	"github.com/mindloom/topicmind/internal/logging"
	"github.com/mindloom/topicmind/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var (
		once     = flag.Bool("once", false, "evaluate and retrain once, then exit")
		force    = flag.Bool("force", false, "retrain regardless of policy")
		interval = flag.Duration("interval", time.Hour, "evaluation interval in scheduled mode")
		dir      = flag.String("dir", "models", "directory model artifacts are written under")
		env      = flag.String("env", os.Getenv("APP_ENV"), "environment name (production enables JSON logs)")
	)
	flag.Parse()

	logger := logging.New(*env)
	defer logger.Sync()

	engine, err := buildEngine(*dir, logger)
	if err != nil {
		logger.Fatal("failed to wire retrain engine", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		runOnce(ctx, engine, *force, logger)
		return
	}

	logger.Info("starting scheduled retrain loop", zap.Duration("interval", *interval))
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	runOnce(ctx, engine, *force, logger)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			// The ticker alone serializes runs: the next tick is not
			// serviced until the previous run returns.
			runOnce(ctx, engine, false, logger)
		}
	}
}

func runOnce(ctx context.Context, engine *topicmind.Engine, force bool, logger *zap.Logger) {
	meta, decision, err := engine.Run(ctx, force)
	if err != nil {
		logger.Error("retrain run failed", zap.Error(err))
		return
	}
	if meta == nil {
		logger.Info("no retrain needed", zap.String("reason", decision.Reason))
		return
	}
	for name, result := range meta.Results {
		logger.Info("sub-model outcome",
			zap.String("model_type", name),
			zap.String("status", result.Status))
	}
}

// buildEngine wires the external collaborators from the environment.
func buildEngine(dir string, logger *zap.Logger) (*topicmind.Engine, error) {
	embedding, err := adapters.NewVoyageEmbeddingAdapter(nil)
	if err != nil {
		return nil, err
	}

	deps := topicmind.TrainerDeps{
		Embedding: embedding,
		Logger:    logger,
	}

	// Descriptive labels and the embedding cache are optional: without
	// them training still works, with keyword labels and re-embedding.
	if os.Getenv("OPENAI_API_KEY") != "" {
		labels, err := adapters.NewDefaultLabelClient(nil, "", os.Getenv("OPENAI_MODEL"), nil)
		if err != nil {
			return nil, err
		}
		deps.Labels = labels
	} else {
		logger.Warn("OPENAI_API_KEY not set, topics keep keyword labels")
	}

	if os.Getenv("PINECONE_API_KEY") != "" {
		cache, err := adapters.NewPineconeCacheAdapter(nil, nil, os.Getenv("PINECONE_NAMESPACE"))
		if err != nil {
			return nil, err
		}
		deps.Cache = cache
	}

	var metaStore topicmind.MetadataStore
	var source topicmind.DocumentSource
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		metaStore, err = store.NewPostgresStoreWithDB(db)
		if err != nil {
			return nil, err
		}
		source, err = store.NewPostgresDocumentSource(db)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory metadata and empty corpora")
		metaStore = store.NewMemoryStore()
		source = emptySource{}
	}

	cfg := topicmind.EngineConfig{ArtifactDir: dir}
	return topicmind.NewEngine(cfg, metaStore, source, deps, nil)
}

// emptySource is the no-database fallback corpus.
type emptySource struct{}

func (emptySource) Count(context.Context, topicmind.ModelType) (int, error) {
	return 0, nil
}

func (emptySource) Documents(context.Context, topicmind.ModelType) ([]topicmind.Document, error) {
	return nil, nil
}
