package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	appcatalog "github.com/store/backend/internal/application/catalog"
	appmedia "github.com/store/backend/internal/application/media"
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/content"
	"github.com/store/backend/internal/domain/media"
	"github.com/store/backend/internal/domain/reconcile"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/infrastructure/persistence"
	"github.com/store/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type catalogFixture struct {
	db       *gorm.DB
	stub     *storage.StubObjectStorage
	tags     catalog.TagRepository
	service  *appcatalog.ProductService
	tagSvc   *appcatalog.TagService
	groupSvc *appcatalog.ProductGroupService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	stub := storage.NewStubObjectStorage()
	uow := persistence.NewGormUnitOfWork(db)
	images := persistence.NewGormImageRepository(db)
	tags := persistence.NewGormTagRepository(db)
	imageSvc := appmedia.NewImageService(
		images,
		persistence.NewGormImageReferenceChecker(db),
		stub,
		uow,
		zap.NewNop(),
	)
	service := appcatalog.NewProductService(
		persistence.NewGormProductRepository(db),
		persistence.NewGormPreviewRepository(db),
		persistence.NewGormDetailRepository(db),
		tags,
		imageSvc,
		uow,
		zap.NewNop(),
	)
	return &catalogFixture{
		db:       db,
		stub:     stub,
		tags:     tags,
		service:  service,
		tagSvc:   appcatalog.NewTagService(tags, persistence.NewGormTagGroupRepository(db), zap.NewNop()),
		groupSvc: appcatalog.NewProductGroupService(persistence.NewGormProductGroupRepository(db)),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// countWrites records every insert, update and delete statement issued
// from this point on, keyed by operation and table.
func countWrites(t *testing.T, db *gorm.DB) map[string]int {
	t.Helper()
	counts := map[string]int{}
	record := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			counts[op+" "+tx.Statement.Table]++
		}
	}
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("count_creates", record("insert")))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("count_updates", record("update")))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("count_deletes", record("delete")))
	return counts
}

func validProductInput(article string) appcatalog.ProductInput {
	return appcatalog.ProductInput{
		Name:           "Drill DX-200",
		Article:        article,
		Count:          5,
		Visible:        true,
		Price:          dec("100.00"),
		WholesalePrice: dec("80.00"),
		Weight:         dec("1.2"),
		Height:         dec("10"),
		Width:          dec("20"),
		Length:         dec("30"),
		Details: []appcatalog.DetailInput{
			{ID: -1, Type: catalog.DetailDescription, Text: "A sturdy drill"},
			{ID: -2, Type: catalog.DetailSpecification, Text: "200W"},
			{ID: -3, Type: catalog.DetailDescription, Text: "Second paragraph"},
		},
		Previews: []appcatalog.PreviewInput{
			{ID: -1, Index: 0, Image: reconcile.ImageRef{Filename: "front.png"}},
			{ID: -2, Index: 1, Image: reconcile.ImageRef{Filename: "side.jpg"}},
		},
		Files: []appmedia.UploadFile{
			{Name: "front.png", Data: []byte("front")},
			{Name: "side.jpg", Data: []byte("side")},
		},
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("stores product with previews and per-type detail indexes", func(t *testing.T) {
		f := newCatalogFixture(t)

		product, err := f.service.CreateProduct(ctx, validProductInput("DX-200"))
		require.NoError(t, err)

		assert.True(t, product.Available)
		require.Len(t, product.Previews, 2)
		assert.Equal(t, 2, f.stub.Len())

		require.Len(t, product.Details, 3)
		indexesByType := map[catalog.DetailType][]int{}
		for _, d := range product.Details {
			indexesByType[d.Type] = append(indexesByType[d.Type], d.Index)
		}
		assert.ElementsMatch(t, []int{0, 1}, indexesByType[catalog.DetailDescription])
		assert.ElementsMatch(t, []int{0}, indexesByType[catalog.DetailSpecification])
	})

	t.Run("zero count product is unavailable", func(t *testing.T) {
		f := newCatalogFixture(t)
		input := validProductInput("DX-201")
		input.Count = 0

		product, err := f.service.CreateProduct(ctx, input)
		require.NoError(t, err)
		assert.False(t, product.Available)
	})

	t.Run("duplicate article is rejected", func(t *testing.T) {
		f := newCatalogFixture(t)
		_, err := f.service.CreateProduct(ctx, validProductInput("DX-200"))
		require.NoError(t, err)

		_, err = f.service.CreateProduct(ctx, validProductInput("DX-200"))
		assertDomainCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("duplicate preview index writes nothing", func(t *testing.T) {
		f := newCatalogFixture(t)
		input := validProductInput("DX-202")
		input.Previews[1].Index = 0

		_, err := f.service.CreateProduct(ctx, input)
		assertDomainCode(t, err, "INVALID_INPUT")

		var count int64
		require.NoError(t, f.db.Model(&catalog.Product{}).Count(&count).Error)
		assert.Zero(t, count)
		assert.Zero(t, f.stub.Len())
	})

	t.Run("missing description detail is rejected", func(t *testing.T) {
		f := newCatalogFixture(t)
		input := validProductInput("DX-203")
		input.Details = []appcatalog.DetailInput{
			{ID: -1, Type: catalog.DetailSpecification, Text: "200W"},
		}

		_, err := f.service.CreateProduct(ctx, input)
		assertDomainCode(t, err, "INVALID_INPUT")
	})

	t.Run("promotion pricing links the promotion tag", func(t *testing.T) {
		f := newCatalogFixture(t)
		input := validProductInput("DX-204")
		old := dec("150.00")
		input.OldPrice = &old

		product, err := f.service.CreateProduct(ctx, input)
		require.NoError(t, err)
		require.NotNil(t, product.PromotionPercentage)
		assert.Equal(t, 34, *product.PromotionPercentage)

		promo, err := f.tags.FindByName(ctx, catalog.PromotionTagName)
		require.NoError(t, err)
		tagIDs, err := f.tags.FindIDsByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Contains(t, tagIDs, promo.ID)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("resubmitting the current state changes nothing", func(t *testing.T) {
		f := newCatalogFixture(t)
		created, err := f.service.CreateProduct(ctx, validProductInput("DX-210"))
		require.NoError(t, err)

		input := validProductInput("DX-210")
		input.Files = nil
		input.Details = nil
		for _, d := range created.Details {
			input.Details = append(input.Details, appcatalog.DetailInput{
				ID: d.ID, Type: d.Type, Text: d.Text,
			})
		}
		input.Previews = nil
		for _, p := range created.Previews {
			input.Previews = append(input.Previews, appcatalog.PreviewInput{
				ID: p.ID, Index: p.Index, Image: reconcile.ImageRef{ImageID: p.ImageID},
			})
		}

		writes := countWrites(t, f.db)
		updated, err := f.service.UpdateProduct(ctx, created.ID, input)
		require.NoError(t, err)

		require.Len(t, updated.Previews, len(created.Previews))
		for i := range created.Previews {
			assert.Equal(t, created.Previews[i].ID, updated.Previews[i].ID)
			assert.Equal(t, created.Previews[i].ImageID, updated.Previews[i].ImageID)
		}
		assert.Len(t, updated.Details, len(created.Details))
		assert.Equal(t, 2, f.stub.Len())
		assert.Empty(t, writes, "resubmitting the current state must not write")
	})

	t.Run("reordering previews touches nothing else", func(t *testing.T) {
		f := newCatalogFixture(t)
		created, err := f.service.CreateProduct(ctx, validProductInput("DX-209"))
		require.NoError(t, err)

		input := validProductInput("DX-209")
		input.Files = nil
		input.Details = detailInputsFrom(created.Details)
		input.Previews = []appcatalog.PreviewInput{
			{ID: created.Previews[0].ID, Index: 1, Image: reconcile.ImageRef{ImageID: created.Previews[0].ImageID}},
			{ID: created.Previews[1].ID, Index: 0, Image: reconcile.ImageRef{ImageID: created.Previews[1].ImageID}},
		}

		writes := countWrites(t, f.db)
		_, err = f.service.UpdateProduct(ctx, created.ID, input)
		require.NoError(t, err)

		assert.Equal(t, map[string]int{"update previews": 2}, writes)
	})

	t.Run("replacing a preview image sweeps the orphaned one", func(t *testing.T) {
		f := newCatalogFixture(t)
		created, err := f.service.CreateProduct(ctx, validProductInput("DX-211"))
		require.NoError(t, err)
		replaced := created.Previews[0]

		input := validProductInput("DX-211")
		input.Details = detailInputsFrom(created.Details)
		input.Previews = []appcatalog.PreviewInput{
			{ID: replaced.ID, Index: 0, Image: reconcile.ImageRef{Filename: "new.png"}},
			{ID: created.Previews[1].ID, Index: 1, Image: reconcile.ImageRef{ImageID: created.Previews[1].ImageID}},
		}
		input.Files = []appmedia.UploadFile{{Name: "new.png", Data: []byte("new")}}

		updated, err := f.service.UpdateProduct(ctx, created.ID, input)
		require.NoError(t, err)

		assert.NotEqual(t, replaced.ImageID, updated.Previews[0].ImageID)
		var imageCount int64
		require.NoError(t, f.db.Model(&media.Image{}).Count(&imageCount).Error)
		assert.EqualValues(t, 2, imageCount)
		assert.Equal(t, 2, f.stub.Len())
	})

	t.Run("image shared with a slide survives preview deletion", func(t *testing.T) {
		f := newCatalogFixture(t)
		created, err := f.service.CreateProduct(ctx, validProductInput("DX-212"))
		require.NoError(t, err)
		kept, dropped := created.Previews[0], created.Previews[1]

		require.NoError(t, f.db.Create(&content.Slide{
			Index:   0,
			ImageID: dropped.ImageID,
		}).Error)

		input := validProductInput("DX-212")
		input.Files = nil
		input.Details = detailInputsFrom(created.Details)
		input.Previews = []appcatalog.PreviewInput{
			{ID: kept.ID, Index: 0, Image: reconcile.ImageRef{ImageID: kept.ImageID}},
		}

		_, err = f.service.UpdateProduct(ctx, created.ID, input)
		require.NoError(t, err)

		var imageCount int64
		require.NoError(t, f.db.Model(&media.Image{}).Count(&imageCount).Error)
		assert.EqualValues(t, 2, imageCount, "slide still references the image")
	})

	t.Run("failed image sweep rolls back the whole update", func(t *testing.T) {
		f := newCatalogFixture(t)
		created, err := f.service.CreateProduct(ctx, validProductInput("DX-216"))
		require.NoError(t, err)
		kept := created.Previews[0]

		// break the cross-container reference lookup the sweep relies on
		require.NoError(t, f.db.Migrator().DropTable(&content.Slide{}))

		input := validProductInput("DX-216")
		input.Files = nil
		input.Details = detailInputsFrom(created.Details)
		input.Previews = []appcatalog.PreviewInput{
			{ID: kept.ID, Index: 0, Image: reconcile.ImageRef{ImageID: kept.ImageID}},
		}

		_, err = f.service.UpdateProduct(ctx, created.ID, input)
		require.Error(t, err)

		var previewCount int64
		require.NoError(t, f.db.Model(&catalog.Preview{}).Count(&previewCount).Error)
		assert.EqualValues(t, 2, previewCount, "preview deletion reverted with the sweep")
		var imageCount int64
		require.NoError(t, f.db.Model(&media.Image{}).Count(&imageCount).Error)
		assert.EqualValues(t, 2, imageCount)
	})

	t.Run("referencing a foreign preview id is rejected", func(t *testing.T) {
		f := newCatalogFixture(t)
		created, err := f.service.CreateProduct(ctx, validProductInput("DX-213"))
		require.NoError(t, err)

		input := validProductInput("DX-213")
		input.Files = nil
		input.Details = detailInputsFrom(created.Details)
		input.Previews = []appcatalog.PreviewInput{
			{ID: 99999, Index: 0, Image: reconcile.ImageRef{ImageID: created.Previews[0].ImageID}},
		}

		_, err = f.service.UpdateProduct(ctx, created.ID, input)
		assertDomainCode(t, err, "INVALID_INPUT")
	})

	t.Run("dropping promotion pricing unlinks the promotion tag", func(t *testing.T) {
		f := newCatalogFixture(t)
		input := validProductInput("DX-214")
		old := dec("150.00")
		input.OldPrice = &old

		created, err := f.service.CreateProduct(ctx, input)
		require.NoError(t, err)

		update := validProductInput("DX-214")
		update.Files = nil
		update.Details = detailInputsFrom(created.Details)
		update.Previews = previewInputsFrom(created.Previews)

		_, err = f.service.UpdateProduct(ctx, created.ID, update)
		require.NoError(t, err)

		tagIDs, err := f.tags.FindIDsByProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, tagIDs)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	created, err := f.service.CreateProduct(ctx, validProductInput("DX-220"))
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteProduct(ctx, created.ID))

	_, _, err = f.service.GetProduct(ctx, created.ID)
	assert.True(t, shared.IsNotFound(err))

	var imageCount int64
	require.NoError(t, f.db.Model(&media.Image{}).Count(&imageCount).Error)
	assert.Zero(t, imageCount)
	assert.Zero(t, f.stub.Len())
}

func TestProductService_Basket(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	_, err := f.service.CreateProduct(ctx, validProductInput("DX-230"))
	require.NoError(t, err)

	hidden := validProductInput("DX-231")
	hidden.Visible = false
	_, err = f.service.CreateProduct(ctx, hidden)
	require.NoError(t, err)

	out := validProductInput("DX-232")
	out.Count = 0
	_, err = f.service.CreateProduct(ctx, out)
	require.NoError(t, err)

	t.Run("retail prices, hidden and out-of-stock dropped", func(t *testing.T) {
		items, err := f.service.Basket(ctx, []string{"DX-230", "DX-231", "DX-232", "DX-999"}, false)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "DX-230", items[0].Article)
		assert.True(t, items[0].Price.Equal(dec("100.00")))
	})

	t.Run("partners see wholesale prices", func(t *testing.T) {
		items, err := f.service.Basket(ctx, []string{"DX-230"}, true)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Price.Equal(dec("80.00")))
	})
}

func TestTagService(t *testing.T) {
	ctx := context.Background()

	t.Run("seed defaults is idempotent", func(t *testing.T) {
		f := newCatalogFixture(t)
		require.NoError(t, f.tagSvc.SeedDefaults(ctx))
		require.NoError(t, f.tagSvc.SeedDefaults(ctx))

		tags, err := f.tagSvc.ListTags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 1)
	})

	t.Run("reserved name cannot be created or edited by hand", func(t *testing.T) {
		f := newCatalogFixture(t)
		require.NoError(t, f.tagSvc.SeedDefaults(ctx))

		_, err := f.tagSvc.CreateTag(ctx, catalog.PromotionTagName, nil)
		assertDomainCode(t, err, "INVALID_INPUT")

		promo, err := f.tags.FindByName(ctx, catalog.PromotionTagName)
		require.NoError(t, err)
		_, err = f.tagSvc.UpdateTag(ctx, promo.ID, "renamed", nil)
		assertDomainCode(t, err, "FORBIDDEN")
		err = f.tagSvc.DeleteTag(ctx, promo.ID)
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("duplicate tag name conflicts", func(t *testing.T) {
		f := newCatalogFixture(t)
		_, err := f.tagSvc.CreateTag(ctx, "cordless", nil)
		require.NoError(t, err)
		_, err = f.tagSvc.CreateTag(ctx, "cordless", nil)
		assertDomainCode(t, err, "ALREADY_EXISTS")
	})
}

func TestProductGroupService(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	group, err := f.groupSvc.CreateGroup(ctx, "Drills")
	require.NoError(t, err)

	_, err = f.groupSvc.CreateGroup(ctx, "Drills")
	assertDomainCode(t, err, "ALREADY_EXISTS")

	renamed, err := f.groupSvc.UpdateGroup(ctx, group.ID, "Power drills")
	require.NoError(t, err)
	assert.Equal(t, "Power drills", renamed.Name)

	require.NoError(t, f.groupSvc.DeleteGroup(ctx, group.ID))
}

func detailInputsFrom(details []catalog.Detail) []appcatalog.DetailInput {
	out := make([]appcatalog.DetailInput, 0, len(details))
	for _, d := range details {
		out = append(out, appcatalog.DetailInput{ID: d.ID, Type: d.Type, Text: d.Text})
	}
	return out
}

func previewInputsFrom(previews []catalog.Preview) []appcatalog.PreviewInput {
	out := make([]appcatalog.PreviewInput, 0, len(previews))
	for _, p := range previews {
		out = append(out, appcatalog.PreviewInput{
			ID: p.ID, Index: p.Index, Image: reconcile.ImageRef{ImageID: p.ImageID},
		})
	}
	return out
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
