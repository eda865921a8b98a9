package reconcile

import (
	"testing"

	"github.com/store/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("splits desired entries into delete, update and create", func(t *testing.T) {
		plan, err := Classify(
			[]int64{1, 2, 3},
			[]Entry{{ID: 2}, {ID: -1}, {ID: 3}, {ID: -2}},
		)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, plan.DeleteIDs)
		assert.Equal(t, []int64{2, 3}, plan.UpdateIDs)
		assert.Equal(t, []int64{-1, -2}, plan.CreateIDs)
	})

	t.Run("resubmitting the current state is a no-op plan", func(t *testing.T) {
		plan, err := Classify([]int64{1, 2}, []Entry{{ID: 1}, {ID: 2}})
		require.NoError(t, err)
		assert.Empty(t, plan.DeleteIDs)
		assert.Empty(t, plan.CreateIDs)
		assert.Equal(t, []int64{1, 2}, plan.UpdateIDs)
	})

	t.Run("empty desired set deletes everything", func(t *testing.T) {
		plan, err := Classify([]int64{4, 5}, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{4, 5}, plan.DeleteIDs)
		assert.Empty(t, plan.UpdateIDs)
	})

	t.Run("rejects a positive ID that is not stored", func(t *testing.T) {
		_, err := Classify([]int64{1}, []Entry{{ID: 7}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects a duplicated positive ID", func(t *testing.T) {
		_, err := Classify([]int64{1}, []Entry{{ID: 1}, {ID: 1}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestResolveImageAction(t *testing.T) {
	tests := []struct {
		name    string
		desired ImageRef
		current int64
		want    ImageAction
	}{
		{"fresh upload replaces current image", ImageRef{Filename: "a.png"}, 10, ImageReplace},
		{"fresh upload wins over ID reference", ImageRef{ImageID: 11, Filename: "a.png"}, 10, ImageReplace},
		{"different stored image relinks", ImageRef{ImageID: 11}, 10, ImageRelink},
		{"same stored image keeps", ImageRef{ImageID: 10}, 10, ImageKeep},
		{"absent reference keeps", ImageRef{}, 10, ImageKeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImageAction(tt.desired, tt.current))
		})
	}
}

func TestCheckUniqueIndexes(t *testing.T) {
	assert.NoError(t, CheckUniqueIndexes([]int{0, 1, 2}))
	assert.NoError(t, CheckUniqueIndexes(nil))

	err := CheckUniqueIndexes([]int{0, 1, 1})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}
