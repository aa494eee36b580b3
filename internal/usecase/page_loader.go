package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/GoArmGo/Gallery/internal/core/ports"
	"github.com/GoArmGo/Gallery/internal/domain"
	"github.com/google/uuid"
)

// PageSize - фиксированный limit запроса к источнику
const PageSize = 30

// StalePolicy определяет, что делать с ответом на запрос, который уже не является последним
type StalePolicy int

const (
	// DiscardStale отбрасывает устаревшие ответы: побеждает последний запрос
	DiscardStale StalePolicy = iota
	// ApplyStale применяет любой ответ: побеждает тот, кто ответил последним
	ApplyStale
)

// ParseStalePolicy разбирает значение STALE_RESPONSES
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "discard":
		return DiscardStale, nil
	case "apply":
		return ApplyStale, nil
	default:
		return DiscardStale, fmt.Errorf("неизвестная политика устаревших ответов: %q", s)
	}
}

func (p StalePolicy) String() string {
	if p == ApplyStale {
		return "apply"
	}
	return "discard"
}

var settled = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// PageLoader - конечный автомат загрузки страницы (Loading / Error / Ready).
// Каждый вызов Load получает номер поколения; ответы сопоставляются с ним согласно StalePolicy.
type PageLoader struct {
	lister ports.ImageLister
	policy StalePolicy
	logger *slog.Logger

	mu         sync.Mutex
	state      domain.PageState
	generation uint64
	listeners  []func(domain.Snapshot)

	// pending - очередь снимков для слушателей в порядке переходов;
	// dispatching истинно, пока ее разбирает горутина dispatch
	pending     []domain.Snapshot
	dispatching bool
}

var _ Gallery = (*PageLoader)(nil)

// NewPageLoader создает загрузчик в начальном состоянии: страница 1, Loading.
// Запрос первой страницы выполняет Start.
func NewPageLoader(lister ports.ImageLister, policy StalePolicy, logger *slog.Logger) *PageLoader {
	return &PageLoader{
		lister: lister,
		policy: policy,
		logger: logger,
		state: domain.PageState{
			CurrentPage: 1,
			Status:      domain.StatusLoading,
		},
	}
}

// OnChange регистрирует слушателя переходов. Слушатели вызываются асинхронно,
// по одному и в порядке переходов, без удерживаемых блокировок загрузчика.
func (l *PageLoader) OnChange(fn func(domain.Snapshot)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Snapshot возвращает копию текущего состояния
func (l *PageLoader) Snapshot() domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Start выполняет первую загрузку (страница 1)
func (l *PageLoader) Start(ctx context.Context) <-chan struct{} {
	return l.Load(ctx, 1)
}

// Load запрашивает страницу page. Номер страницы не проверяется.
func (l *PageLoader) Load(ctx context.Context, page int) <-chan struct{} {
	l.mu.Lock()
	return l.beginLocked(ctx, page)
}

// Retry повторяет загрузку текущей страницы
func (l *PageLoader) Retry(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	return l.beginLocked(ctx, l.state.CurrentPage)
}

// GoToPage переходит на страницу n. Неположительные значения молча игнорируются.
func (l *PageLoader) GoToPage(ctx context.Context, n int) <-chan struct{} {
	if n <= 0 {
		l.logger.Debug("goto page ignored", "page", n)
		return settled
	}
	return l.Load(ctx, n)
}

// NextPage переходит на следующую страницу; на странице math.MaxInt ничего не делает
func (l *PageLoader) NextPage(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	if l.state.CurrentPage == math.MaxInt {
		l.mu.Unlock()
		return settled
	}
	return l.beginLocked(ctx, l.state.CurrentPage+1)
}

// PrevPage переходит на предыдущую страницу; на первой странице ничего не делает
func (l *PageLoader) PrevPage(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	if l.state.CurrentPage <= 1 {
		l.mu.Unlock()
		return settled
	}
	return l.beginLocked(ctx, l.state.CurrentPage-1)
}

// beginLocked синхронно переводит состояние в Loading и запускает запрос.
// Вызывается с захваченным l.mu и освобождает его.
func (l *PageLoader) beginLocked(ctx context.Context, page int) <-chan struct{} {
	l.generation++
	gen := l.generation

	l.state.CurrentPage = page
	l.state.Status = domain.StatusLoading
	l.state.Message = ""
	l.state.Images = nil
	l.state.LoadedPage = 0

	l.publishAndUnlock()

	done := make(chan struct{})
	go l.fetch(context.WithoutCancel(ctx), page, gen, done)
	return done
}

func (l *PageLoader) fetch(ctx context.Context, page int, gen uint64, done chan struct{}) {
	defer close(done)

	requestID := uuid.New()
	start := time.Now()
	l.logger.Info("page fetch started", "request_id", requestID, "page", page, "generation", gen)

	images, err := l.lister.ListImages(ctx, page, PageSize)

	l.mu.Lock()
	if gen != l.generation {
		if l.policy == DiscardStale {
			latest := l.generation
			l.mu.Unlock()
			l.logger.Info("stale page response discarded",
				"request_id", requestID,
				"page", page,
				"generation", gen,
				"latest_generation", latest,
			)
			return
		}
		l.logger.Warn("stale page response applied",
			"request_id", requestID,
			"page", page,
			"generation", gen,
			"latest_generation", l.generation,
		)
	}

	if err != nil {
		l.logger.Error("page fetch failed",
			"request_id", requestID,
			"page", page,
			"generation", gen,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		l.state.Status = domain.StatusError
		l.state.Message = domain.FetchFailedMessage
		l.state.Images = nil
		l.state.LoadedPage = 0
	} else {
		l.logger.Info("page fetch completed",
			"request_id", requestID,
			"page", page,
			"generation", gen,
			"count", len(images),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		l.state.Status = domain.StatusReady
		l.state.Message = ""
		l.state.Images = append([]domain.ImageRecord(nil), images...)
		l.state.LoadedPage = page
	}

	l.publishAndUnlock()
}

// publishAndUnlock ставит копию состояния в очередь слушателей и освобождает l.mu.
// Разбор очереди идет в отдельной горутине: медленный слушатель не задерживает операции.
func (l *PageLoader) publishAndUnlock() {
	if len(l.listeners) == 0 {
		l.mu.Unlock()
		return
	}

	l.pending = append(l.pending, l.snapshotLocked())
	start := !l.dispatching
	l.dispatching = true
	l.mu.Unlock()

	if start {
		go l.dispatch()
	}
}

// dispatch вызывает слушателей для каждого снимка из очереди, пока она не опустеет.
// Одновременно работает не больше одной такой горутины.
func (l *PageLoader) dispatch() {
	for {
		l.mu.Lock()
		if len(l.pending) == 0 {
			l.dispatching = false
			l.mu.Unlock()
			return
		}
		snap := l.pending[0]
		l.pending[0] = domain.Snapshot{}
		l.pending = l.pending[1:]
		listeners := make([]func(domain.Snapshot), len(l.listeners))
		copy(listeners, l.listeners)
		l.mu.Unlock()

		for _, fn := range listeners {
			fn(snap)
		}
	}
}

func (l *PageLoader) snapshotLocked() domain.Snapshot {
	images := make([]domain.ImageRecord, len(l.state.Images))
	copy(images, l.state.Images)
	return domain.Snapshot{
		CurrentPage: l.state.CurrentPage,
		Status:      l.state.Status,
		Message:     l.state.Message,
		Images:      images,
		LoadedPage:  l.state.LoadedPage,
		Generation:  l.generation,
	}
}
