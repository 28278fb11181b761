// Package datasync provides import/export orchestration between schedule backends.
package datasync

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	ItemsNew     int
	ItemsSkipped int
	ItemsUpdated int
	LogsNew      int
	LogsSkipped  int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// UpdateExisting advances target schedules that are behind the source.
	UpdateExisting bool
}

// ExportData holds every schedule and review log of a backend.
type ExportData struct {
	Items []scheduler.ScheduledItem
	Logs  []schedule.ReviewLog
}

// Exporter reads a backend and returns domain structs.
type Exporter struct {
	store   schedule.Store
	history schedule.HistoryRepository
}

// NewExporter creates a new Exporter.
func NewExporter(store schedule.Store, history schedule.HistoryRepository) *Exporter {
	return &Exporter{
		store:   store,
		history: history,
	}
}

// Export reads all data from the backend.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	items, err := e.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.FindAll() > %w", err)
	}

	logs, err := e.history.FindAllLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("history.FindAllLogs() > %w", err)
	}

	return &ExportData{
		Items: items,
		Logs:  logs,
	}, nil
}

// Importer writes exported data into a backend.
type Importer struct {
	store   schedule.Store
	history schedule.HistoryRepository
	writer  io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(store schedule.Store, history schedule.HistoryRepository, writer io.Writer) *Importer {
	return &Importer{
		store:   store,
		history: history,
		writer:  writer,
	}
}

// Import copies schedules and review logs into the backend.
// Stores only accept successors, so a schedule is written once per review count,
// using the state recorded in its review log for each intermediate count.
func (imp *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	logsByItem := make(map[string][]schedule.ReviewLog)
	for _, log := range data.Logs {
		logsByItem[log.ItemID] = append(logsByItem[log.ItemID], log)
	}

	// Without UpdateExisting the target keeps its own history for items it already has.
	skipped := make(map[string]bool)
	for _, item := range data.Items {
		imported, err := imp.importItem(ctx, item, logsByItem[item.ItemID], opts, &result)
		if err != nil {
			return nil, fmt.Errorf("importItem(%s) > %w", item.ItemID, err)
		}
		if !imported && !opts.UpdateExisting {
			skipped[item.ItemID] = true
		}
	}

	itemIDs := make([]string, 0, len(logsByItem))
	for itemID := range logsByItem {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Strings(itemIDs)
	for _, itemID := range itemIDs {
		if skipped[itemID] {
			result.LogsSkipped += len(logsByItem[itemID])
			continue
		}
		if err := imp.importLogs(ctx, itemID, logsByItem[itemID], opts, &result); err != nil {
			return nil, fmt.Errorf("importLogs(%s) > %w", itemID, err)
		}
	}

	return &result, nil
}

// importItem reports whether the item was created or updated.
func (imp *Importer) importItem(ctx context.Context, item scheduler.ScheduledItem, logs []schedule.ReviewLog, opts ImportOptions, result *ImportResult) (bool, error) {
	existing, err := imp.store.Find(ctx, item.ItemID)
	if err != nil {
		return false, fmt.Errorf("store.Find() > %w", err)
	}

	start := 1
	if existing != nil {
		if existing.ReviewCount >= item.ReviewCount || !opts.UpdateExisting {
			_, _ = fmt.Fprintf(imp.writer, "  [SKIP]  %s (review count %d)\n", item.ItemID, existing.ReviewCount)
			result.ItemsSkipped++
			return false, nil
		}
		start = existing.ReviewCount + 1
		_, _ = fmt.Fprintf(imp.writer, "  [UPDATE]  %s (review count %d -> %d)\n", item.ItemID, existing.ReviewCount, item.ReviewCount)
		result.ItemsUpdated++
	} else {
		_, _ = fmt.Fprintf(imp.writer, "  [NEW]  %s (review count %d)\n", item.ItemID, item.ReviewCount)
		result.ItemsNew++
	}

	if opts.DryRun {
		return true, nil
	}

	byCount := make(map[int]schedule.ReviewLog, len(logs))
	for _, log := range logs {
		byCount[log.ReviewCount] = log
	}
	for count := start; count <= item.ReviewCount; count++ {
		if err := imp.store.Save(ctx, stepAt(item, byCount, count)); err != nil {
			return false, fmt.Errorf("store.Save(review count %d) > %w", count, err)
		}
	}
	return true, nil
}

// stepAt returns the state item had after its count-th review.
func stepAt(item scheduler.ScheduledItem, byCount map[int]schedule.ReviewLog, count int) scheduler.ScheduledItem {
	if count == item.ReviewCount {
		return item
	}
	if log, ok := byCount[count]; ok {
		return log.Item()
	}
	step := item
	step.ReviewCount = count
	return step
}

func (imp *Importer) importLogs(ctx context.Context, itemID string, logs []schedule.ReviewLog, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.history.FindLogs(ctx, itemID)
	if err != nil {
		return fmt.Errorf("history.FindLogs() > %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, log := range existing {
		known[log.ID] = struct{}{}
	}

	var missing []schedule.ReviewLog
	for _, log := range logs {
		if _, ok := known[log.ID]; ok {
			result.LogsSkipped++
			continue
		}
		known[log.ID] = struct{}{}
		missing = append(missing, log)
	}
	if len(missing) == 0 {
		return nil
	}

	if !opts.DryRun {
		if err := imp.history.AppendLogs(ctx, missing...); err != nil {
			return fmt.Errorf("history.AppendLogs() > %w", err)
		}
	}
	result.LogsNew += len(missing)
	return nil
}
