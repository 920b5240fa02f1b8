package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDelivery        BookmarkType = "first_delivery"
	BookmarkForagingBreakthrough BookmarkType = "foraging_breakthrough"
	BookmarkPileDepleted         BookmarkType = "pile_depleted"
	BookmarkPopulationCrash      BookmarkType = "population_crash"
	BookmarkFoodExhausted        BookmarkType = "food_exhausted"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a foraging run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentAntPeak int
	delivered     bool
	exhausted     bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstDelivery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkForagingBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.DepletedPiles > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkPileDepleted,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d pile(s) depleted, %d left", stats.DepletedPiles, stats.FoodPiles),
		})
	}
	if b := bd.checkPopulationCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if !bd.exhausted && stats.FoodPiles == 0 {
		bd.exhausted = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFoodExhausted,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("All food gone, %.1f collected", stats.Collected),
		})
	}

	bd.addToHistory(stats)
	if stats.Ants > bd.recentAntPeak {
		bd.recentAntPeak = stats.Ants
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstDelivery(stats WindowStats) *Bookmark {
	if bd.delivered || stats.Deliveries == 0 {
		return nil
	}
	bd.delivered = true
	return &Bookmark{
		Type:        BookmarkFirstDelivery,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First food delivered, %d deliveries in window", stats.Deliveries),
	}
}

func (bd *BookmarkDetector) checkForagingBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Deliveries
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := float64(stats.Deliveries)
	if current > avg*2.0 && stats.Deliveries >= 5 {
		return &Bookmark{
			Type:        BookmarkForagingBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d deliveries is %.1fx average (%.1f)", stats.Deliveries, current/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentAntPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Ants)/float64(bd.recentAntPeak)
	if drop > 0.30 && stats.Ants < bd.recentAntPeak-5 {
		oldPeak := bd.recentAntPeak
		bd.recentAntPeak = stats.Ants

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Ants dropped %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Ants),
		}
	}
	return nil
}
