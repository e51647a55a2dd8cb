// Package translation orchestrates cached translations through a free-text
// model. Failures never surface to callers: they degrade to the original text.
package translation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pantry/internal/bootstrap/logging"
	domain "pantry/internal/domain/translation"
	"pantry/internal/errs"
	"pantry/internal/ports"
)

// DefaultConcurrency bounds item-by-item translation when a batch cannot be joined.
const DefaultConcurrency = 4

type Options struct {
	Separator string
	// TTL is passed to the cache on write; zero means the store default.
	TTL time.Duration
	// Concurrency caps in-flight provider calls when items go one by one.
	Concurrency int
}

type Service struct {
	cache       ports.Cache
	generator   ports.TextGenerator
	separator   string
	ttl         time.Duration
	concurrency int
}

var _ ports.Translator = (*Service)(nil)

// NewService wires the orchestrator. cache may be nil, in which case every call
// goes to the generator.
func NewService(cache ports.Cache, generator ports.TextGenerator, opts Options) *Service {
	sep := opts.Separator
	if sep == "" {
		sep = domain.DefaultSeparator
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		cache:       cache,
		generator:   generator,
		separator:   sep,
		ttl:         opts.TTL,
		concurrency: concurrency,
	}
}

// Translate returns the cached or freshly generated translation of text.
// ok is false when no translation could be produced; the caller keeps text.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, bool) {
	if strings.TrimSpace(text) == "" || domain.SameLanguage(sourceLang, targetLang) {
		return text, true
	}
	return s.translate(ctx, text, sourceLang, targetLang, domain.TextPrompt(text, sourceLang, targetLang))
}

// TranslateBatch translates items in one provider call and maps the reply back
// by index. The result always has len(items) entries; any index that could not
// be translated keeps its original. Blank items are returned untouched.
func (s *Service) TranslateBatch(ctx context.Context, items []string, sourceLang, targetLang string) []string {
	if len(items) == 0 {
		return []string{}
	}
	batch := domain.NewBatch(items, s.separator)
	if domain.SameLanguage(sourceLang, targetLang) {
		return batch.Originals()
	}

	pending, idx := batch.Pending()
	if len(idx) == 0 {
		return batch.Originals()
	}

	ctx = logging.WithAttrs(ctx,
		slog.String("component", "translation.batch"),
		slog.Int("items", len(items)),
	)
	if len(idx) < len(items) {
		logging.Debug(ctx, "blank batch items passed through",
			slog.Int("blank", len(items)-len(idx)),
		)
	}

	return batch.Scatter(idx, s.translatePending(ctx, pending, sourceLang, targetLang))
}

func (s *Service) translatePending(ctx context.Context, batch domain.Batch, sourceLang, targetLang string) []string {
	if batch.Collides() {
		logging.Warn(ctx, "batch item contains separator, translating items one by one",
			slog.String("separator", s.separator),
			slog.Int("concurrency", s.concurrency),
		)
		return s.translateEach(ctx, batch.Items, sourceLang, targetLang)
	}

	translated, ok := s.translate(ctx, batch.Join(), sourceLang, targetLang, domain.BatchPrompt(batch, sourceLang, targetLang))
	if !ok {
		return batch.Originals()
	}

	out, align := batch.Split(translated)
	if !align.Aligned() {
		logging.Warn(ctx, "batch translation count mismatch",
			slog.Int("expected", align.Expected),
			slog.Int("got", align.Got),
			slog.Int("fallbacks", align.Fallbacks),
		)
	}
	return out
}

// translateEach runs at most s.concurrency provider calls at a time.
func (s *Service) translateEach(ctx context.Context, items []string, sourceLang, targetLang string) []string {
	out := make([]string, len(items))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item string) {
			defer wg.Done()
			defer func() { <-sem }()
			translated, ok := s.Translate(ctx, item, sourceLang, targetLang)
			if !ok {
				translated = item
			}
			out[i] = translated
		}(i, item)
	}
	wg.Wait()
	return out
}

func (s *Service) translate(ctx context.Context, text, sourceLang, targetLang, prompt string) (string, bool) {
	if ctx == nil {
		return text, false
	}
	if err := ctx.Err(); err != nil {
		return text, false
	}

	key := domain.CacheKey(sourceLang, targetLang, text)
	if cached, found := s.getCacheBestEffort(ctx, key); found {
		return cached, true
	}

	if s.generator == nil {
		return text, false
	}
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logging.Warn(ctx, "translation provider failed, keeping original",
			slog.String("source_lang", sourceLang),
			slog.String("target_lang", targetLang),
			slog.Any("err", errs.Loggable(err)),
		)
		return text, false
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		logging.Warn(ctx, "translation provider returned empty reply, keeping original",
			slog.String("source_lang", sourceLang),
			slog.String("target_lang", targetLang),
		)
		return text, false
	}

	s.setCacheBestEffort(ctx, key, reply)
	return reply, true
}

func (s *Service) getCacheBestEffort(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	value, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "translation cache read failed, treating as miss",
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
		return "", false
	}
	return value, found
}

func (s *Service) setCacheBestEffort(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		logging.Warn(ctx, "translation cache write failed",
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
