package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eduardoinoa18/memorybox/pkg/cache"
	ctxPkg "github.com/eduardoinoa18/memorybox/pkg/context"
	"github.com/eduardoinoa18/memorybox/pkg/internal/model"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/queue"
)

const statsCacheTTL = 5 * time.Minute

func statsCacheKey(userID string) string {
	return "stats:user:" + userID
}

func (s *MemoryService) invalidateStatsCache(ctx context.Context, userID string) {
	if s.statsCache == nil {
		return
	}

	if err := s.statsCache.Delete(ctx, statsCacheKey(userID)); err != nil {
		mlog.Logger().Debug().Err(err).Str("user", userID).Msg("stats cache invalidation failed")
	}
}

// GetStorageStats returns the user's storage summary from the aggregate
// tables, cached for a short window. A user with no uploads gets zeros.
func (s *MemoryService) GetStorageStats(ctx context.Context, userID string) (*types.StorageStatsResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user is required")
	}

	load := func() (*types.StorageStatsResponse, error) {
		return s.loadStorageStats(ctx, userID)
	}

	if s.statsCache == nil {
		return load()
	}

	resp, err := cache.GetOrSet(ctx, s.statsCache, statsCacheKey(userID), load, statsCacheTTL)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *MemoryService) loadStorageStats(ctx context.Context, userID string) (*types.StorageStatsResponse, error) {
	gdb := s.dbClient.WithContext(ctx)

	var userStats model.UserStats

	err := gdb.Where("user_id = ?", userID).First(&userStats).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user stats: %w", err)
	}

	folderStats := make([]model.FolderStats, 0, DefaultSliceCapacity)
	if err := gdb.Where("user_id = ?", userID).Find(&folderStats).Error; err != nil {
		return nil, fmt.Errorf("load folder stats: %w", err)
	}

	resp := &types.StorageStatsResponse{
		User: types.UserStorageStats{
			UserID:         userID,
			TotalSizeBytes: userStats.TotalSizeBytes,
			MemoryCount:    userStats.MemoryCount,
			UpdatedAt:      userStats.UpdatedAt,
		},
		Folders: make([]types.FolderStorageStats, 0, len(folderStats)),
	}

	for _, f := range folderStats {
		resp.Folders = append(resp.Folders, types.FolderStorageStats{
			FolderID:       f.FolderID,
			MemoryCount:    f.MemoryCount,
			TotalSizeBytes: f.TotalSizeBytes,
			UpdatedAt:      f.UpdatedAt,
		})
	}

	return resp, nil
}

// GetTypeStats aggregates the user's memories by MIME top-level class.
func (s *MemoryService) GetTypeStats(ctx context.Context, userID string) ([]types.StatsTypeItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user is required")
	}

	type typeRow struct {
		ContentType string
		Count       int64
		Size        int64
	}

	var rows []typeRow

	err := s.dbClient.WithContext(ctx).
		Model(&model.Memory{}).
		Select("content_type, COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS size").
		Where("user_id = ?", userID).
		Group("content_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("type stats: %w", err)
	}

	// Fold full MIME types into their top-level class here instead of in
	// SQL, which keeps the query portable across dialects.
	byClass := make(map[string]*types.StatsTypeItem)
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		class := row.ContentType
		if i := strings.IndexByte(class, '/'); i >= 0 {
			class = class[:i]
		}

		item, ok := byClass[class]
		if !ok {
			item = &types.StatsTypeItem{Type: class}
			byClass[class] = item
			order = append(order, class)
		}

		item.Count += int(row.Count)
		item.Size += row.Size
	}

	items := make([]types.StatsTypeItem, 0, len(order))
	for _, class := range order {
		items = append(items, *byClass[class])
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Size > items[j].Size })

	return items, nil
}

// recountTotals is a scan target for the aggregate re-derivation.
type recountTotals struct {
	Count int64
	Size  int64
}

// RecountUserStats re-derives the user's aggregates from the memories table
// and writes them back as absolute values. It reports whether the stored
// aggregates had drifted. Used by the nightly reconciliation job; safe to
// run any time.
func (s *MemoryService) RecountUserStats(ctx context.Context, userID string) (drift bool, err error) {
	gdb := s.dbClient.WithContext(ctx)

	var totals recountTotals

	err = gdb.Model(&model.Memory{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS size").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return false, fmt.Errorf("recount memories: %w", err)
	}

	var current model.UserStats

	err = gdb.Where("user_id = ?", userID).First(&current).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("load user stats: %w", err)
	}

	drift = current.MemoryCount != totals.Count || current.TotalSizeBytes != totals.Size

	now := time.Now().UTC()

	err = gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&model.UserStats{
		UserID:         userID,
		TotalSizeBytes: totals.Size,
		MemoryCount:    totals.Count,
		UpdatedAt:      now,
	}).Error
	if err != nil {
		return drift, fmt.Errorf("write user stats: %w", err)
	}

	foldersUpdated, err := s.recountFolderStats(ctx, userID, now)
	if err != nil {
		return drift, err
	}

	s.invalidateStatsCache(ctx, userID)

	if s.eventsEnabled(s.eventsCfg.Memory.StatsRecounted) {
		pubErr := queue.PublishStatsRecounted(s.mqClient.Publisher(), queue.StatsRecountedPayload{
			UserID:         userID,
			TotalSizeBytes: totals.Size,
			MemoryCount:    totals.Count,
			FoldersUpdated: foldersUpdated,
			Drift:          drift,
		})
		if pubErr != nil {
			logger := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
			logger.Warn().Err(pubErr).Str("user", userID).Msg("publish stats recounted event failed")
		}
	}

	return drift, nil
}

// recountFolderStats rebuilds the user's folder aggregates inside one
// transaction: stale rows go away, current ones are rewritten.
func (s *MemoryService) recountFolderStats(ctx context.Context, userID string, now time.Time) (int, error) {
	type folderTotals struct {
		FolderID string
		Count    int64
		Size     int64
	}

	var rows []folderTotals

	err := s.dbClient.WithContext(ctx).
		Model(&model.Memory{}).
		Select("folder_id, COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS size").
		Where("user_id = ? AND folder_id <> ''", userID).
		Group("folder_id").
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("recount folders: %w", err)
	}

	err = s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.FolderStats{}).Error; err != nil {
			return err
		}

		for _, row := range rows {
			stats := model.FolderStats{
				UserID:         userID,
				FolderID:       row.FolderID,
				MemoryCount:    row.Count,
				TotalSizeBytes: row.Size,
				UpdatedAt:      now,
			}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("write folder stats: %w", err)
	}

	return len(rows), nil
}

// ListStatsUserIDs returns every user with memories or aggregate rows, for
// the reconciliation job.
func (s *MemoryService) ListStatsUserIDs(ctx context.Context) ([]string, error) {
	gdb := s.dbClient.WithContext(ctx)

	var fromMemories []string
	if err := gdb.Model(&model.Memory{}).Distinct("user_id").Pluck("user_id", &fromMemories).Error; err != nil {
		return nil, fmt.Errorf("list memory users: %w", err)
	}

	var fromStats []string
	if err := gdb.Model(&model.UserStats{}).Pluck("user_id", &fromStats).Error; err != nil {
		return nil, fmt.Errorf("list stats users: %w", err)
	}

	seen := make(map[string]struct{}, len(fromMemories)+len(fromStats))
	users := make([]string, 0, len(fromMemories)+len(fromStats))

	for _, id := range append(fromMemories, fromStats...) {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		users = append(users, id)
	}

	return users, nil
}
