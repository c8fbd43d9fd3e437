/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store_test.go
Description: Tests for the SQLite model store.
*/

package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/frbdt/pkg/dataset"
	"github.com/kleascm/frbdt/pkg/fuzzy"
	"github.com/kleascm/frbdt/pkg/ruleset"
	"github.com/kleascm/frbdt/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *store.ModelStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func trainModel(t *testing.T, relation string) *ruleset.Model {
	t.Helper()
	schema := &dataset.Schema{
		Relation:   relation,
		Attributes: []dataset.Attribute{dataset.NewNumeric(0, "x", 0, 10)},
		Class:      dataset.NewNominal(1, "class", []string{"low", "high"}),
	}
	data, err := dataset.New(schema, []dataset.Instance{
		dataset.NewInstance(0, 0), dataset.NewInstance(0, 1),
		dataset.NewInstance(1, 9), dataset.NewInstance(1, 10),
	})
	require.NoError(t, err)

	model, err := ruleset.Train(context.Background(), data, fuzzy.Params{MaxAttributes: 1, Threshold: 0.5, Alpha: 0.02})
	require.NoError(t, err)
	return model
}

func TestSaveAndLoad(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	model := trainModel(t, "toy")

	require.NoError(t, s.Save(ctx, model))

	loaded, err := s.Load(ctx, model.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ID, loaded.ID)
	assert.Equal(t, model.Describe(), loaded.Describe())
	assert.Equal(t, model.Predict(dataset.NewInstance(0, 3)), loaded.Predict(dataset.NewInstance(0, 3)))

	byPrefix, err := s.Load(ctx, model.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, model.ID, byPrefix.ID)

	require.NoError(t, s.Save(ctx, model), "saving again replaces the row")
	summaries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestLoadMissing(t *testing.T) {
	s := openStore(t)

	_, err := s.Load(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, store.ErrModelNotFound)

	_, err = s.Load(context.Background(), "  ")
	assert.ErrorIs(t, err, store.ErrModelNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	older := trainModel(t, "first")
	older.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := trainModel(t, "second")
	newer.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, "second", summaries[0].Relation)
	assert.True(t, newer.CreatedAt.Equal(summaries[0].CreatedAt))
	assert.Equal(t, newer.RuleCount(), summaries[0].Rules)
	assert.Equal(t, newer.LayerCount(), summaries[0].Layers)
	assert.Equal(t, 1, summaries[0].MaxAttributes)
	assert.Equal(t, 0.5, summaries[0].Threshold)
	assert.Equal(t, older.ID, summaries[1].ID)
}

func TestEvaluationsAndDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	model := trainModel(t, "toy")
	require.NoError(t, s.Save(ctx, model))

	require.NoError(t, s.RecordEvaluation(ctx, store.Evaluation{ModelID: model.ID, Dataset: "train", Accuracy: 1, Instances: 4}))
	require.NoError(t, s.RecordEvaluation(ctx, store.Evaluation{ModelID: model.ID[:6], Dataset: "test", Accuracy: 0.75, Instances: 8}))

	evaluations, err := s.Evaluations(ctx, model.ID)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
	assert.Equal(t, "train", evaluations[0].Dataset)
	assert.Equal(t, model.ID, evaluations[1].ModelID)
	assert.Equal(t, 0.75, evaluations[1].Accuracy)
	assert.False(t, evaluations[1].RecordedAt.IsZero())

	err = s.RecordEvaluation(ctx, store.Evaluation{ModelID: "unknown", Dataset: "x"})
	assert.ErrorIs(t, err, store.ErrModelNotFound)

	require.NoError(t, s.Delete(ctx, model.ID))
	_, err = s.Load(ctx, model.ID)
	assert.ErrorIs(t, err, store.ErrModelNotFound)
	assert.ErrorIs(t, s.Delete(ctx, model.ID), store.ErrModelNotFound)
}

func TestReopenKeepsModels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")
	model := trainModel(t, "toy")

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), model))
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.Load(context.Background(), model.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RuleCount(), loaded.RuleCount())
}
