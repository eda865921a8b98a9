package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/store/backend/internal/domain/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&media.Image{}))
	return db
}

func countImages(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&media.Image{}).Count(&count).Error)
	return count
}

func TestGormUnitOfWork_Do(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db := newTestDB(t)
		uow := NewGormUnitOfWork(db)
		images := NewGormImageRepository(db)

		err := uow.Do(context.Background(), func(ctx context.Context) error {
			return images.Create(ctx, []*media.Image{{Filename: "a.png"}})
		})

		require.NoError(t, err)
		assert.EqualValues(t, 1, countImages(t, db))
	})

	t.Run("rolls back everything on error", func(t *testing.T) {
		db := newTestDB(t)
		uow := NewGormUnitOfWork(db)
		images := NewGormImageRepository(db)

		boom := errors.New("boom")
		err := uow.Do(context.Background(), func(ctx context.Context) error {
			if err := images.Create(ctx, []*media.Image{{Filename: "a.png"}}); err != nil {
				return err
			}
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.EqualValues(t, 0, countImages(t, db))
	})

	t.Run("nested calls join the open transaction", func(t *testing.T) {
		db := newTestDB(t)
		uow := NewGormUnitOfWork(db)
		images := NewGormImageRepository(db)

		boom := errors.New("boom")
		err := uow.Do(context.Background(), func(ctx context.Context) error {
			if err := images.Create(ctx, []*media.Image{{Filename: "a.png"}}); err != nil {
				return err
			}
			// the inner Do must not commit independently
			return uow.Do(ctx, func(ctx context.Context) error {
				if err := images.Create(ctx, []*media.Image{{Filename: "b.png"}}); err != nil {
					return err
				}
				return boom
			})
		})

		assert.ErrorIs(t, err, boom)
		assert.EqualValues(t, 0, countImages(t, db))
	})
}
