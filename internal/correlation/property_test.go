package correlation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"correlation-service/internal/repository/memrepo"
	"correlation-service/internal/typedefs"
)

func TestUpsertIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := memrepo.NewStore()
		svc := NewService(typedefs.Default(), CollaboratorsFrom(store))

		qn := rapid.StringMatching(`[a-z][a-z0-9.:-]{0,40}`).Draw(t, "qualifiedName")
		repeats := rapid.IntRange(1, 8).Draw(t, "repeats")

		var first string
		for i := 0; i < repeats; i++ {
			props := ExternalSourceProperties{
				QualifiedName: qn,
				Description:   rapid.StringMatching(`[a-z ]{0,20}`).Draw(t, "description"),
			}
			guid, err := svc.UpsertExternalSource(ctx, testUser, props)
			require.NoError(t, err)
			if i == 0 {
				first = guid
			}
			require.Equal(t, first, guid)

			found, err := svc.GetExternalSource(ctx, testUser, qn)
			require.NoError(t, err)
			require.Equal(t, guid, found)

			e, ok := store.GetEntity(guid)
			require.True(t, ok)
			require.Equal(t, props.Description, e.Properties.GetString(typedefs.DescriptionPropertyName))
		}
		require.Len(t, store.ListEntities(ssc.Name), 1)
	})
}

func TestProcessingStateIsLastWrite(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		svc := NewService(typedefs.Default(), CollaboratorsFrom(memrepo.NewStore()))
		_, err := svc.UpsertExternalSource(ctx, testUser, engineProps())
		require.NoError(t, err)

		writes := rapid.IntRange(1, 5).Draw(t, "writes")
		var last SyncDates
		for i := 0; i < writes; i++ {
			last = rapid.MapOf(rapid.StringMatching(`[a-z]{1,8}`), rapid.Int64()).Draw(t, "dates")
			require.NoError(t, svc.RecordProcessingState(ctx, testUser, ProcessingState{QualifiedName: stateQN, SyncDatesByKey: last}, engineQN))
		}

		got, err := svc.GetProcessingState(ctx, testUser, engineQN)
		require.NoError(t, err)
		require.Equal(t, last.Clone(), got.SyncDatesByKey)
	})
}
