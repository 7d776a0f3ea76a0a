package integration

import (
	"context"
	"testing"
	"time"

	announcementapp "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/application"
	announcement "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/domain"
	announcementpg "github.com/dmehra2102/Bookstore-Order-System/internal/announcement/infrastructure/postgres"
	bookmarkapp "github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/application"
	bookmark "github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/domain"
	bookmarkpg "github.com/dmehra2102/Bookstore-Order-System/internal/bookmark/infrastructure/postgres"
	catalogpg "github.com/dmehra2102/Bookstore-Order-System/internal/catalog/infrastructure/postgres"
	reviewapp "github.com/dmehra2102/Bookstore-Order-System/internal/review/application"
	review "github.com/dmehra2102/Bookstore-Order-System/internal/review/domain"
	reviewpg "github.com/dmehra2102/Bookstore-Order-System/internal/review/infrastructure/postgres"
	"github.com/stretchr/testify/require"
)

func TestBookmarks(t *testing.T) {
	skipShort(t)
	ctx := context.Background()
	log := discardLogger()
	svcs := newServices()
	const userID = int64(301)

	catalogRepo := catalogpg.NewRepository(log, pool)
	svc := bookmarkapp.NewService(bookmarkpg.NewRepository(log, pool), catalogRepo)

	b := seedBook(t, svcs.catalog, "Refactoring", "35", 3)

	require.ErrorIs(t, svc.Remove(ctx, userID, b.ID), bookmark.ErrBookmarkNotFound)

	require.NoError(t, svc.Add(ctx, userID, b.ID))
	require.NoError(t, svc.Add(ctx, userID, b.ID), "bookmarking twice is a no-op")

	marks, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	require.Equal(t, "Refactoring", marks[0].Title)
	require.True(t, marks[0].Price.Equal(b.Price))

	require.NoError(t, svc.Remove(ctx, userID, b.ID))
	marks, err = svc.List(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, marks)
}

func TestReviews(t *testing.T) {
	skipShort(t)
	ctx := context.Background()
	log := discardLogger()
	svcs := newServices()
	const userID = int64(401)

	catalogRepo := catalogpg.NewRepository(log, pool)
	svc := reviewapp.NewService(reviewpg.NewRepository(log, pool), catalogRepo)

	b := seedBook(t, svcs.catalog, "Domain-Driven Design", "50", 2)

	_, err := svc.Write(ctx, review.Review{BookID: b.ID, UserID: userID, Rating: 6})
	require.ErrorIs(t, err, review.ErrInvalidRating)

	first, err := svc.Write(ctx, review.Review{BookID: b.ID, UserID: userID, Rating: 4, Body: "dense but worth it"})
	require.NoError(t, err)

	replaced, err := svc.Write(ctx, review.Review{BookID: b.ID, UserID: userID, Rating: 5, Body: "grew on me"})
	require.NoError(t, err)
	require.Equal(t, 5, replaced.Rating)
	require.True(t, replaced.CreatedAt.Equal(first.CreatedAt), "rewrite keeps the original created_at")

	_, err = svc.Write(ctx, review.Review{BookID: b.ID, UserID: 402, Rating: 2, Body: "not for me"})
	require.NoError(t, err)

	list, err := svc.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.Remove(ctx, 402, b.ID))
	require.ErrorIs(t, svc.Remove(ctx, 402, b.ID), review.ErrReviewNotFound)
}

func TestAnnouncementWindowAndOutbox(t *testing.T) {
	skipShort(t)
	ctx := context.Background()
	svc := announcementapp.NewService(announcementpg.NewRepository(discardLogger(), pool))
	now := time.Now().UTC()

	_, err := svc.Create(ctx, announcement.Announcement{
		Title:    "Bad window",
		StartsAt: now,
		EndsAt:   now.Add(-time.Hour),
	}, nil, "")
	require.ErrorIs(t, err, announcement.ErrInvalidWindow)

	active, err := svc.Create(ctx, announcement.Announcement{
		Title:    "Summer sale",
		Body:     "Everything must go",
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
	}, map[string]string{"source": "integration"}, "")
	require.NoError(t, err)
	require.NotZero(t, active.ID)

	_, err = svc.Create(ctx, announcement.Announcement{
		Title:    "Next month",
		StartsAt: now.Add(30 * 24 * time.Hour),
		EndsAt:   now.Add(31 * 24 * time.Hour),
	}, nil, "")
	require.NoError(t, err)

	listed, err := svc.ListActive(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(listed))
	for _, a := range listed {
		ids = append(ids, a.ID)
	}
	require.Contains(t, ids, active.ID)
	for _, a := range listed {
		require.True(t, a.ActiveAt(now), "listed announcement %d outside its window", a.ID)
	}

	var outboxed int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM outbox WHERE aggregate_type='announcement' AND type=$1`,
		announcement.EventAnnouncementPublished).Scan(&outboxed)
	require.NoError(t, err)
	require.GreaterOrEqual(t, outboxed, 2)

	require.NoError(t, svc.Delete(ctx, active.ID))
	require.ErrorIs(t, svc.Delete(ctx, active.ID), announcement.ErrAnnouncementNotFound)
}
