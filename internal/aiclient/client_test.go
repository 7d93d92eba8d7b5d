package aiclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVendor struct {
	calls      int
	response   string
	err        error
	multimodal string
}

func (f *fakeVendor) Call(ctx context.Context, prompt string, cfg *Config) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeVendor) CallMultimodal(ctx context.Context, parts []ContentPart, cfg *Config) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.multimodal, nil
}

type fakeSink struct {
	entries []CallLogEntry
}

func (s *fakeSink) Record(e CallLogEntry) { s.entries = append(s.entries, e) }

func TestGenerateSuccessLogsEntry(t *testing.T) {
	v := &fakeVendor{response: `{"calories":100}`}
	sink := &fakeSink{}
	a := NewAdapter(v, sink)

	out, err := a.Generate(context.Background(), "food-analysis", nil, "analyze 番茄炒蛋", &Config{Model: "gpt-4"})
	require.NoError(t, err)
	assert.Equal(t, `{"calories":100}`, out)
	require.Len(t, sink.entries, 1)
	assert.True(t, sink.entries[0].Success)
	assert.Equal(t, "food-analysis", sink.entries[0].CallType)
}

func TestGenerateNeverRetries(t *testing.T) {
	v := &fakeVendor{err: errors.New("boom")}
	sink := &fakeSink{}
	a := NewAdapter(v, sink)

	_, err := a.Generate(context.Background(), "food-analysis", nil, "x", &Config{})
	assert.Error(t, err)
	assert.Equal(t, 1, v.calls)
	require.Len(t, sink.entries, 1)
	assert.False(t, sink.entries[0].Success)
}

func TestGenerateMultimodal(t *testing.T) {
	v := &fakeVendor{multimodal: `["dish1","dish2"]`}
	sink := &fakeSink{}
	a := NewAdapter(v, sink)

	out, err := a.GenerateMultimodal(context.Background(), "menu-recognition", nil,
		[]ContentPart{{Type: "text", Text: "list dishes"}, {Type: "image_url", ImageDataURI: "data:image/png;base64,xxx"}},
		&Config{})
	require.NoError(t, err)
	assert.Equal(t, `["dish1","dish2"]`, out)
}

func TestLogOutcomeSwallowsNilSink(t *testing.T) {
	v := &fakeVendor{response: "ok"}
	a := NewAdapter(v, nil)
	_, err := a.Generate(context.Background(), "food-analysis", nil, "x", &Config{})
	assert.NoError(t, err)
}

func TestGetVendorClientUnknownProvider(t *testing.T) {
	_, err := GetVendorClient("unknown")
	assert.Error(t, err)
}
