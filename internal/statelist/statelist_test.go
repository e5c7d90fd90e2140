package statelist

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meutreino/skill/internal/litestore"
	"github.com/meutreino/skill/internal/session"
)

func newAdapter(t *testing.T) (*Adapter, *litestore.DB) {
	t.Helper()
	db, err := litestore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestEncodeOrderAndFormat(t *testing.T) {
	got := Encode(session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Squat", Set: 1})
	assert.Equal(t, []string{
		"CURRENT_WORKOUT_ID=A",
		"SKIP_MOTIVATION=false",
		"CURRENT_EXERCISE_NAME=Squat",
		"CURRENT_SERIE=1",
	}, got)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    session.RecoveryTuple
		ok      bool
		wantErr bool
	}{
		{name: "empty list", values: nil},
		{
			name:   "complete",
			values: []string{"CURRENT_WORKOUT_ID=12", "SKIP_MOTIVATION=TRUE", "CURRENT_EXERCISE_NAME=Leg press", "CURRENT_SERIE=3"},
			want:   session.RecoveryTuple{WorkoutID: "12", SkipMotivation: true, ExerciseName: "Leg press", Set: 3},
			ok:     true,
		},
		{
			name:   "name containing separator",
			values: []string{"CURRENT_WORKOUT_ID=12", "SKIP_MOTIVATION=false", "CURRENT_EXERCISE_NAME=A=B", "CURRENT_SERIE=1"},
			want:   session.RecoveryTuple{WorkoutID: "12", ExerciseName: "A=B", Set: 1},
			ok:     true,
		},
		{
			name:    "missing set",
			values:  []string{"CURRENT_WORKOUT_ID=12", "SKIP_MOTIVATION=false", "CURRENT_EXERCISE_NAME=Squat"},
			ok:      true,
			wantErr: true,
		},
		{
			name:    "bad skip flag",
			values:  []string{"CURRENT_WORKOUT_ID=12", "SKIP_MOTIVATION=maybe", "CURRENT_EXERCISE_NAME=Squat", "CURRENT_SERIE=1"},
			ok:      true,
			wantErr: true,
		},
		{
			name:    "zero set",
			values:  []string{"CURRENT_WORKOUT_ID=12", "SKIP_MOTIVATION=false", "CURRENT_EXERCISE_NAME=Squat", "CURRENT_SERIE=0"},
			ok:      true,
			wantErr: true,
		},
		{name: "unrelated entries only", values: []string{"milk", "eggs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Decode(tt.values)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrIncomplete), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteThenRead(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()
	want := session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Squat", Set: 2}

	require.NoError(t, a.Write(ctx, "alice", want))

	got, ok, err := a.Read(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestWriteReplacesPreviousContainer(t *testing.T) {
	a, db := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, "alice", session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Squat", Set: 1}))
	require.NoError(t, a.Write(ctx, "alice", session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Lunge", Set: 2}))

	lists, err := db.ListsMetadata(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, lists, 1)

	items, err := db.ListItems(ctx, "alice", lists[0].ID)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	got, _, err := a.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Lunge", got.ExerciseName)
	assert.Equal(t, 2, got.Set)
}

func TestResetLeavesEmptyContainer(t *testing.T) {
	a, db := newAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, "alice", session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Squat", Set: 3}))
	require.NoError(t, a.Reset(ctx, "alice"))

	_, ok, err := a.Read(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	lists, err := db.ListsMetadata(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func TestEnsureAndClear(t *testing.T) {
	a, db := newAdapter(t)
	ctx := context.Background()

	created, err := a.Ensure(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = a.Ensure(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, a.Clear(ctx, "alice"))
	lists, err := db.ListsMetadata(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestReadIgnoresOtherContainers(t *testing.T) {
	a, db := newAdapter(t)
	ctx := context.Background()

	shopping, err := db.CreateList(ctx, "alice", "Shopping")
	require.NoError(t, err)
	_, err = db.CreateItem(ctx, "alice", shopping.ID, "CURRENT_WORKOUT_ID=bogus")
	require.NoError(t, err)

	_, ok, err := a.Read(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoundTripProperty(t *testing.T) {
	a, _ := newAdapter(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("read returns what was written", prop.ForAll(
		func(id, name string, skip bool, set int) bool {
			want := session.RecoveryTuple{WorkoutID: "w" + id, SkipMotivation: skip, ExerciseName: "Ex " + name + "=1", Set: set}
			if err := a.Write(ctx, "prop", want); err != nil {
				return false
			}
			got, ok, err := a.Read(ctx, "prop")
			return err == nil && ok && got == want
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
