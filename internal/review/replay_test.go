package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

func reviewLog(itemID string, reviewCount int, wasSuccessful bool, difficulty scheduler.Difficulty, reviewedAt time.Time) schedule.ReviewLog {
	return schedule.ReviewLog{
		ID:            itemID + "-" + reviewedAt.Format(time.RFC3339),
		ItemID:        itemID,
		Difficulty:    difficulty,
		WasSuccessful: wasSuccessful,
		ReviewCount:   reviewCount,
		ReviewedAt:    reviewedAt,
	}
}

func TestReplay(t *testing.T) {
	epoch := time.UnixMilli(0).UTC()

	tests := []struct {
		name    string
		logs    []schedule.ReviewLog
		want    scheduler.ScheduledItem
		wantErr bool
	}{
		{
			name: "first review",
			logs: []schedule.ReviewLog{
				reviewLog("card-7", 1, true, scheduler.Again, epoch),
			},
			want: scheduler.ScheduledItem{
				ItemID:             "card-7",
				NextReviewAt:       time.UnixMilli(300000).UTC(),
				ReviewCount:        1,
				IntervalMultiplier: 1.0,
				Difficulty:         scheduler.Again,
			},
		},
		{
			name: "consecutive successes grow the interval",
			logs: []schedule.ReviewLog{
				reviewLog("card-7", 1, false, scheduler.Good, epoch),
				reviewLog("card-7", 2, true, scheduler.Good, epoch.Add(time.Hour)),
				reviewLog("card-7", 3, true, scheduler.Good, epoch.Add(3*time.Hour)),
			},
			want: scheduler.ScheduledItem{
				ItemID:                "card-7",
				NextReviewAt:          epoch.Add(3*time.Hour + 135*time.Minute),
				ReviewCount:           3,
				LastAttemptSuccessful: true,
				IntervalMultiplier:    2.25,
				Difficulty:            scheduler.Good,
			},
		},
		{
			name: "failure resets the multiplier",
			logs: []schedule.ReviewLog{
				reviewLog("card-7", 1, false, scheduler.Good, epoch),
				reviewLog("card-7", 2, true, scheduler.Good, epoch.Add(time.Hour)),
				reviewLog("card-7", 3, false, scheduler.Hard, epoch.Add(2*time.Hour)),
			},
			want: scheduler.ScheduledItem{
				ItemID:             "card-7",
				NextReviewAt:       epoch.Add(2*time.Hour + 15*time.Minute),
				ReviewCount:        3,
				IntervalMultiplier: 1.0,
				Difficulty:         scheduler.Hard,
			},
		},
		{
			name: "graduation",
			logs: []schedule.ReviewLog{
				reviewLog("card-7", 1, false, scheduler.Good, epoch),
				reviewLog("card-7", 2, true, scheduler.Easy, epoch.Add(time.Hour)),
			},
			want: scheduler.ScheduledItem{
				ItemID:                "card-7",
				NextReviewAt:          scheduler.Never,
				ReviewCount:           2,
				LastAttemptSuccessful: true,
				IntervalMultiplier:    1.0,
				Difficulty:            scheduler.Easy,
			},
		},
		{
			name:    "no logs",
			wantErr: true,
		},
		{
			name: "gap in review counts",
			logs: []schedule.ReviewLog{
				reviewLog("card-7", 1, false, scheduler.Good, epoch),
				reviewLog("card-7", 3, true, scheduler.Good, epoch.Add(time.Hour)),
			},
			wantErr: true,
		},
		{
			name: "mixed items",
			logs: []schedule.ReviewLog{
				reviewLog("card-7", 1, false, scheduler.Good, epoch),
				reviewLog("card-8", 2, true, scheduler.Good, epoch.Add(time.Hour)),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Replay(scheduler.DefaultIntervalTable(), tt.logs)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBrokenHistory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Audit(t *testing.T) {
	ctx := context.Background()
	store := schedule.NewMemoryStore()

	current := now
	clock := scheduler.ClockFunc(func() time.Time {
		return current
	})
	service := NewService(store, store, WithClock(clock))

	review := func(itemID string, wasSuccessful bool, difficulty scheduler.Difficulty) {
		t.Helper()
		_, err := service.Review(ctx, Request{ItemID: itemID, WasSuccessful: wasSuccessful, Difficulty: difficulty})
		require.NoError(t, err)
		current = current.Add(10 * time.Minute)
	}
	review("card-consistent", false, scheduler.Good)
	review("card-consistent", true, scheduler.Good)
	review("card-consistent", true, scheduler.Easy)
	review("card-diverged", false, scheduler.Hard)
	review("card-diverged", true, scheduler.Good)
	review("card-missing", false, scheduler.Again)

	findings, err := service.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, findings)

	// Tamper with the stored state behind the service's back
	diverged, err := service.Get(ctx, "card-diverged")
	require.NoError(t, err)
	diverged.ReviewCount++
	diverged.NextReviewAt = diverged.NextReviewAt.Add(time.Hour)
	require.NoError(t, store.Save(ctx, diverged))
	diverged.ReviewCount++
	diverged.NextReviewAt = diverged.NextReviewAt.Add(-time.Hour)
	require.NoError(t, store.Save(ctx, diverged))

	require.NoError(t, store.DeleteLogs(ctx, "card-missing"))
	require.NoError(t, store.Delete(ctx, "card-consistent"))

	findings, err = service.Audit(ctx)
	require.NoError(t, err)
	require.Len(t, findings, 3)

	assert.Equal(t, "card-consistent", findings[0].ItemID)
	assert.Equal(t, FindingOrphanedHistory, findings[0].Kind)
	require.NotNil(t, findings[0].Replayed)
	assert.True(t, findings[0].Replayed.IsGraduated())

	assert.Equal(t, "card-diverged", findings[1].ItemID)
	assert.Equal(t, FindingDiverged, findings[1].Kind)
	assert.Equal(t, "review count 4, replayed 2", findings[1].Detail)

	assert.Equal(t, "card-missing", findings[2].ItemID)
	assert.Equal(t, FindingMissingHistory, findings[2].Kind)
}
