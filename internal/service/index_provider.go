package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"answerme/internal/news"
	"answerme/internal/rag"
)

// IndexProvider hands out the retrieval index for a calendar date, building
// it at most once per process.
type IndexProvider interface {
	IndexForDate(ctx context.Context, date time.Time) (*rag.Index, error)
}

// newsIndexProvider caches one index per date. Index construction embeds the
// whole artifact and costs seconds, so a per-date mutex keeps concurrent
// requests from building it twice; later requests reuse the cached value.
type newsIndexProvider struct {
	reader  *news.Reader
	engine  rag.Engine
	logger  *zap.Logger
	indexes sync.Map // date string -> *rag.Index
	mutexes sync.Map // date string -> *sync.Mutex
}

// NewIndexProvider creates a caching index provider over the crawler output.
func NewIndexProvider(reader *news.Reader, engine rag.Engine, logger *zap.Logger) IndexProvider {
	return &newsIndexProvider{
		reader: reader,
		engine: engine,
		logger: logger,
	}
}

func (p *newsIndexProvider) getMutex(key string) *sync.Mutex {
	value, _ := p.mutexes.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}

func (p *newsIndexProvider) IndexForDate(ctx context.Context, date time.Time) (*rag.Index, error) {
	key := date.Format("2006-01-02")

	mutex := p.getMutex(key)
	mutex.Lock()
	defer mutex.Unlock()

	if cached, ok := p.indexes.Load(key); ok {
		return cached.(*rag.Index), nil
	}

	document, err := p.reader.Load(date)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	index, err := p.engine.BuildIndex(ctx, document)
	if err != nil {
		return nil, err
	}
	p.logger.Info("built retrieval index",
		zap.String("date", key),
		zap.Duration("elapsed", time.Since(start)))

	p.indexes.Store(key, index)
	return index, nil
}
