/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: commands_test.go
Description: End-to-end tests for the FRBDT commands: train with a test set and a store,
then evaluate, describe, list and delete the stored model.
*/

package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/frbdt/pkg/ruleset"
	"github.com/kleascm/frbdt/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workspace struct {
	dir       string
	trainFile string
	testFile  string
	modelFile string
	storePath string
	reportDir string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	ws := &workspace{
		dir:       dir,
		trainFile: filepath.Join(dir, "toy.csv"),
		testFile:  filepath.Join(dir, "toy_test.csv"),
		modelFile: filepath.Join(dir, "model.json"),
		storePath: filepath.Join(dir, "db", "models.db"),
		reportDir: filepath.Join(dir, "reports"),
	}

	require.NoError(t, os.WriteFile(ws.trainFile, []byte("x,class\n0,low\n2,low\n8,high\n10,high\n"), 0644))
	require.NoError(t, os.WriteFile(ws.testFile, []byte("x,class\n1,low\n3,low\n7,high\n9.5,high\n"), 0644))

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("data.train_file", ws.trainFile)
	viper.Set("data.test_file", ws.testFile)
	viper.Set("output.model_file", ws.modelFile)
	viper.Set("output.store_path", ws.storePath)
	viper.Set("output.report_dir", ws.reportDir)
	viper.Set("log.output_dir", "")
	viper.Set("log.quiet", true)
	viper.Set("train.workers", 2)

	return ws
}

func (ws *workspace) storedModels(t *testing.T) []store.Summary {
	t.Helper()
	st, err := store.Open(ws.storePath)
	require.NoError(t, err)
	defer st.Close()

	models, err := st.List(context.Background())
	require.NoError(t, err)
	return models
}

func (ws *workspace) evaluations(t *testing.T, id string) []store.Evaluation {
	t.Helper()
	st, err := store.Open(ws.storePath)
	require.NoError(t, err)
	defer st.Close()

	evaluations, err := st.Evaluations(context.Background(), id)
	require.NoError(t, err)
	return evaluations
}

func TestTrainWritesModelReportsAndStore(t *testing.T) {
	ws := newWorkspace(t)

	require.NoError(t, RunTrain(&cobra.Command{}, nil))

	model, err := ruleset.LoadModel(ws.modelFile)
	require.NoError(t, err)
	assert.Equal(t, "toy", model.Relation)
	assert.Equal(t, 1, model.LayerCount())

	reports, err := filepath.Glob(filepath.Join(ws.reportDir, "training", "*_training_*.json"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	predictions, err := filepath.Glob(filepath.Join(ws.reportDir, "predictions", "*.out"))
	require.NoError(t, err)
	assert.Len(t, predictions, 2, "train and test prediction files")

	models := ws.storedModels(t)
	require.Len(t, models, 1)
	assert.Equal(t, model.ID, models[0].ID)

	evaluations := ws.evaluations(t, model.ID)
	require.Len(t, evaluations, 2)
	assert.Equal(t, "train", evaluations[0].Dataset)
	assert.Equal(t, 1.0, evaluations[0].Accuracy)
	assert.Equal(t, "test", evaluations[1].Dataset)
	assert.Equal(t, 4, evaluations[1].Instances)
}

func TestTrainRequiresTrainingFile(t *testing.T) {
	newWorkspace(t)
	viper.Set("data.train_file", "")

	assert.Error(t, RunTrain(&cobra.Command{}, nil))
}

func TestTrainRejectsInvalidParameters(t *testing.T) {
	newWorkspace(t)
	viper.Set("train.threshold", 2.0)

	assert.Error(t, RunTrain(&cobra.Command{}, nil))
}

func TestEvaluateStoredModel(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, RunTrain(&cobra.Command{}, nil))
	id := ws.storedModels(t)[0].ID

	predictions := filepath.Join(ws.dir, "out", "toy_test.out")
	viper.Set("model_id", id[:8])
	viper.Set("predictions", predictions)

	require.NoError(t, RunEvaluate(&cobra.Command{}, nil))

	content, err := os.ReadFile(predictions)
	require.NoError(t, err)
	assert.Contains(t, string(content), "@data\n")

	evaluations := ws.evaluations(t, id)
	require.Len(t, evaluations, 3)
	assert.Equal(t, "toy_test", evaluations[2].Dataset)

	reports, err := filepath.Glob(filepath.Join(ws.reportDir, "evaluation", "*.json"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestEvaluateModelFileWithoutStore(t *testing.T) {
	ws := newWorkspace(t)
	viper.Set("output.store_path", "")
	require.NoError(t, RunTrain(&cobra.Command{}, nil))

	require.NoError(t, RunEvaluate(&cobra.Command{}, nil))
	_, err := os.Stat(ws.storePath)
	assert.True(t, os.IsNotExist(err))
}

func TestEvaluateUnknownModelID(t *testing.T) {
	newWorkspace(t)
	require.NoError(t, RunTrain(&cobra.Command{}, nil))
	viper.Set("model_id", "does-not-exist")

	err := RunEvaluate(&cobra.Command{}, nil)
	assert.ErrorIs(t, err, store.ErrModelNotFound)
}

func TestDescribeListDelete(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, RunTrain(&cobra.Command{}, nil))
	id := ws.storedModels(t)[0].ID

	assert.NoError(t, RunDescribe(&cobra.Command{}, []string{id[:8]}))
	assert.NoError(t, RunDescribe(&cobra.Command{}, nil), "falls back to the model file")
	assert.NoError(t, RunModelsList(&cobra.Command{}, nil))
	assert.NoError(t, RunModelsEvaluations(&cobra.Command{}, []string{id}))

	require.NoError(t, RunModelsDelete(&cobra.Command{}, []string{id}))
	assert.Empty(t, ws.storedModels(t))
	assert.ErrorIs(t, RunModelsDelete(&cobra.Command{}, []string{id}), store.ErrModelNotFound)
}

func TestModelsRequireStore(t *testing.T) {
	newWorkspace(t)
	viper.Set("output.store_path", "")

	assert.Error(t, RunModelsList(&cobra.Command{}, nil))
}

func TestConfigShow(t *testing.T) {
	newWorkspace(t)
	assert.NoError(t, RunConfigShow(&cobra.Command{}, nil))
}

func TestBindFlagsUnknownFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("known", "", "")

	assert.NoError(t, BindFlags(cmd, map[string]string{"known": "k"}))
	assert.Error(t, BindFlags(cmd, map[string]string{"missing": "k"}))
}
