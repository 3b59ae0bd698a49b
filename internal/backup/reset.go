package backup

import (
	"errors"
	"fmt"

	"github.com/julianstephens/daylog/internal/logger"
	"github.com/julianstephens/daylog/internal/storage"
)

// resetOrder clears dependents before the records they point at.
var resetOrder = []storage.Kind{
	storage.KindJournalEntries,
	storage.KindHabitEntries,
	storage.KindHabits,
	storage.KindTags,
	storage.KindCollections,
}

// Reset deletes every instance of every managed kind. A kind that fails is
// reported and the rest are still cleared; the failures are joined. If w
// keeps derived caches they are dropped afterwards.
func Reset(w storage.Writer) (map[storage.Kind]int, error) {
	cleared := make(map[storage.Kind]int, len(resetOrder))
	var errs []error
	for _, kind := range resetOrder {
		n, err := w.DeleteAll(kind)
		if err != nil {
			logger.Warn("Failed to clear kind", "kind", kind, "error", err)
			errs = append(errs, fmt.Errorf("failed to clear %s: %w", kind, err))
			continue
		}
		cleared[kind] = n
	}

	if cr, ok := w.(storage.CacheResetter); ok {
		cr.ResetCache()
	}

	return cleared, errors.Join(errs...)
}
