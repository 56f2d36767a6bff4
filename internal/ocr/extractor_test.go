package ocr

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
)

type fakeEngine struct {
	regions []Region
	err     error
	calls   []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Detect(_ context.Context, imagePath string) ([]Region, error) {
	f.calls = append(f.calls, imagePath)
	return f.regions, f.err
}

func TestExtractText_JoinsRegionsInDetectionOrder(t *testing.T) {
	engine := &fakeEngine{regions: []Region{
		{Text: "THIS AGREEMENT", Bounds: image.Rect(0, 0, 10, 10), Confidence: 91},
		{Text: "is made between", Confidence: 40},
		{Text: "THIS AGREEMENT", Confidence: 88},
	}}

	text, err := NewExtractor(engine, nil).ExtractText(context.Background(), "/tmp/page_1.png")
	require.NoError(t, err)
	assert.Equal(t, "THIS AGREEMENT is made between THIS AGREEMENT", text)
	assert.Equal(t, []string{"/tmp/page_1.png"}, engine.calls)
}

func TestExtractText_NoRegions(t *testing.T) {
	text, err := NewExtractor(&fakeEngine{}, nil).ExtractText(context.Background(), "blank.png")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractText_EngineFailure(t *testing.T) {
	cause := errors.New("image decode failed")
	_, err := NewExtractor(&fakeEngine{err: cause}, nil).ExtractText(context.Background(), "bad.png")

	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeExtraction))
	assert.ErrorIs(t, err, cause)
}

func TestExtractText_CancellationPassesThrough(t *testing.T) {
	_, err := NewExtractor(&fakeEngine{err: context.Canceled}, nil).ExtractText(context.Background(), "a.png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsType(err, domain.ErrorTypeExtraction))
}
