package database

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 100, G: 150, B: 200, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newStoreWith(t *testing.T, ids ...string) PipelineRepository {
	t.Helper()
	store := NewPipelineStore()
	for _, id := range ids {
		require.NoError(t, store.Add(&entity.LoadedImage{ID: id, Name: id + ".png", Source: pngBytes(t, 4, 2)}))
	}
	return store
}

func TestSnapshotDefaultsToOriginal(t *testing.T) {
	store := newStoreWith(t, "a")

	ops, err := store.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, []entity.Operation{{Kind: entity.KindOriginal}}, ops)

	_, err = store.SetActive("a", entity.KindGrayscale, true)
	require.NoError(t, err)
	_, err = store.SetActive("a", entity.KindGrayscale, false)
	require.NoError(t, err)

	ops, err = store.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, []entity.Operation{{Kind: entity.KindOriginal}}, ops)
}

func TestSetActiveAppendsDefaultsInOrder(t *testing.T) {
	store := newStoreWith(t, "a")

	_, err := store.SetActive("a", entity.KindBlur, true)
	require.NoError(t, err)
	ops, err := store.SetActive("a", entity.KindFlip, true)
	require.NoError(t, err)

	assert.Equal(t, []entity.Operation{
		{Kind: entity.KindBlur, Value: 15},
		{Kind: entity.KindFlip, Value: entity.FlipHorizontal},
	}, ops)

	again, err := store.SetActive("a", entity.KindBlur, true)
	require.NoError(t, err)
	assert.Equal(t, ops, again, "activating twice must not duplicate")
}

func TestReactivationKeepsParameter(t *testing.T) {
	kinds := []struct {
		kind  entity.Kind
		value any
		want  any
	}{
		{entity.KindRotate, 45, 45},
		{entity.KindBlur, 33, 33},
		{entity.KindFlip, "vertical", entity.FlipVertical},
		{entity.KindResize, map[string]any{"width": 20, "height": 30}, entity.Size{Width: 20, Height: 30}},
	}

	for _, tt := range kinds {
		t.Run(string(tt.kind), func(t *testing.T) {
			store := newStoreWith(t, "a")
			_, err := store.SetActive("a", tt.kind, true)
			require.NoError(t, err)
			require.NoError(t, store.SetParameter("a", tt.kind, tt.value))

			_, err = store.SetActive("a", tt.kind, false)
			require.NoError(t, err)
			_, err = store.SetActive("a", tt.kind, false)
			require.NoError(t, err)
			ops, err := store.SetActive("a", tt.kind, true)
			require.NoError(t, err)

			require.Len(t, ops, 1)
			assert.Equal(t, tt.want, ops[0].Value)
		})
	}
}

func TestSetParameterOnInactiveKind(t *testing.T) {
	store := newStoreWith(t, "a")
	_, err := store.SetActive("a", entity.KindGrayscale, true)
	require.NoError(t, err)

	err = store.SetParameter("a", entity.KindBlur, 21)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	ops, err := store.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, []entity.Operation{{Kind: entity.KindGrayscale}}, ops)
}

func TestSetParameterRejectsMalformedValue(t *testing.T) {
	store := newStoreWith(t, "a")
	_, err := store.SetActive("a", entity.KindLighten, true)
	require.NoError(t, err)

	assert.ErrorIs(t, store.SetParameter("a", entity.KindLighten, "very"), entity.ErrInvalidParameter)

	ops, err := store.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, 50, ops[0].Value)
}

func TestClearAllAndMissingImage(t *testing.T) {
	store := newStoreWith(t, "a")
	_, err := store.SetActive("a", entity.KindThreshold, true)
	require.NoError(t, err)
	require.NoError(t, store.ClearAll("a"))

	ops, err := store.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, entity.KindOriginal, ops[0].Kind)

	assert.ErrorIs(t, store.ClearAll("missing"), entity.ErrImageNotFound)
	_, err = store.SetActive("missing", entity.KindBlur, true)
	assert.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestWorkspaceOrder(t *testing.T) {
	store := newStoreWith(t, "a", "b", "c")
	require.NoError(t, store.Remove("b"))

	var ids []string
	for _, img := range store.List() {
		ids = append(ids, img.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, []string{"a", "c"}, store.Clear())
	assert.Zero(t, store.Len())
}

func TestDimensionsAreDerivedOnce(t *testing.T) {
	store := newStoreWith(t, "a")

	d, err := store.Dimensions("a")
	require.NoError(t, err)
	assert.Equal(t, entity.Dimensions{Width: 4, Height: 2}, d)

	img, err := store.Get("a")
	require.NoError(t, err)
	require.NotNil(t, img.Dimensions)
	assert.Equal(t, d, *img.Dimensions)
}

func TestSequenceGuardLastEditWins(t *testing.T) {
	store := newStoreWith(t, "a")

	reqA, err := store.BeginEvaluation("a")
	require.NoError(t, err)
	_, err = store.SetActive("a", entity.KindGrayscale, true)
	require.NoError(t, err)
	reqB, err := store.BeginEvaluation("a")
	require.NoError(t, err)
	require.Greater(t, reqB.Seq, reqA.Seq)

	artifactB := &entity.Artifact{Data: []byte("B"), Dimensions: entity.Dimensions{Width: 1, Height: 1}}
	artifactA := &entity.Artifact{Data: []byte("A"), Dimensions: entity.Dimensions{Width: 1, Height: 1}}

	require.NoError(t, store.ApplyResult("a", reqB.Seq, artifactB, reqB.Operations))
	err = store.ApplyResult("a", reqA.Seq, artifactA, reqA.Operations)
	assert.ErrorIs(t, err, entity.ErrStaleResult)

	img, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReady, img.Status)
	assert.Equal(t, []byte("B"), img.Artifact.Data)
	assert.Equal(t, []entity.Operation{{Kind: entity.KindGrayscale}}, img.AppliedPipeline)
}

func TestOlderResultKeepsLoadingUntilLatestSettles(t *testing.T) {
	store := newStoreWith(t, "a")

	reqA, err := store.BeginEvaluation("a")
	require.NoError(t, err)
	reqB, err := store.BeginEvaluation("a")
	require.NoError(t, err)

	require.NoError(t, store.ApplyResult("a", reqA.Seq, &entity.Artifact{Data: []byte("A")}, reqA.Operations))
	img, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusLoading, img.Status)
	assert.Nil(t, img.VisibleArtifact())

	require.NoError(t, store.ApplyResult("a", reqB.Seq, &entity.Artifact{Data: []byte("B")}, reqB.Operations))
	img, err = store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReady, img.Status)
	assert.Equal(t, []byte("B"), img.VisibleArtifact().Data)
}

func TestFailureHidesPreviousArtifact(t *testing.T) {
	store := newStoreWith(t, "a")

	req, err := store.BeginEvaluation("a")
	require.NoError(t, err)
	require.NoError(t, store.ApplyResult("a", req.Seq, &entity.Artifact{Data: []byte("ok")}, req.Operations))

	req, err = store.BeginEvaluation("a")
	require.NoError(t, err)
	require.NoError(t, store.ApplyFailure("a", req.Seq, "failed to process image"))

	img, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, img.Status)
	assert.Equal(t, "failed to process image", img.Error)
	assert.NotNil(t, img.Artifact, "artifact stays stored")
	assert.Nil(t, img.VisibleArtifact())
}
