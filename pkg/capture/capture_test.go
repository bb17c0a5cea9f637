package capture

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
	"github.com/OpenTraceLab/OpenTraceDWF/pkg/units"
)

var stamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func scopeCapture() *dwf.Capture {
	return &dwf.Capture{
		Rate: units.Kilohertz(1),
		Time: stamp,
		Channels: []dwf.ChannelData{
			{Index: 0, Samples: []units.Voltage{0, 0.5, 1}},
			{Index: 1, Samples: []units.Voltage{-1, -0.5, 0}},
		},
	}
}

func logicCapture() *dwf.LogicCapture {
	return &dwf.LogicCapture{Rate: units.Megahertz(1), Time: stamp, Samples: []uint32{0b01, 0b10, 0b11}}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	rec := NewScopeRecord("Analog Discovery 2 SN:1", "loopback", scopeCapture())
	require.NoError(t, s.Save(ctx, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, KindScope, got.Kind)
	assert.Equal(t, "loopback", got.Label)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.Logic)
	if diff := cmp.Diff(rec.Scope, got.Scope); diff != "" {
		t.Errorf("scope data mismatch (-want +got):\n%s", diff)
	}

	lrec := NewLogicRecord("dev", "", logicCapture(), 2)
	require.NoError(t, s.Save(ctx, lrec))
	lgot, err := s.Get(ctx, lrec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, lgot.Lines)
	if diff := cmp.Diff(lrec.Logic, lgot.Logic); diff != "" {
		t.Errorf("logic data mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreSaveInvalid(t *testing.T) {
	s := openStore(t)
	tests := []struct {
		name string
		rec  *Record
	}{
		{"no data", &Record{Kind: KindScope}},
		{"mixed data", &Record{Kind: KindScope, Scope: scopeCapture(), Logic: logicCapture()}},
		{"no lines", NewLogicRecord("", "", logicCapture(), 0)},
		{"unknown kind", &Record{Kind: "spectrum", Scope: scopeCapture()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, s.Save(context.Background(), tt.rec))
		})
	}
}

func TestStoreListDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	older := NewScopeRecord("dev", "older", scopeCapture())
	older.CreatedAt = stamp
	newer := NewLogicRecord("dev", "newer", logicCapture(), 2)
	newer.CreatedAt = stamp.Add(time.Minute)
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	assert.Equal(t, 3, list[1].Samples)
	assert.Equal(t, 2, list[1].Channels)
	assert.Equal(t, units.Kilohertz(1), list[1].Rate)
	assert.Equal(t, KindLogic, list[0].Kind)

	require.NoError(t, s.Delete(ctx, older.ID))
	_, err = s.Get(ctx, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, older.ID), ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoreLookup(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	a := NewScopeRecord("", "", scopeCapture())
	a.ID = uuid.MustParse("aaaa0000-0000-4000-8000-000000000001")
	b := NewScopeRecord("", "", scopeCapture())
	b.ID = uuid.MustParse("aaaa0000-0000-4000-8000-000000000002")
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	id, err := s.Lookup(ctx, "AAAA0000-0000-4000-8000-000000000002")
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)

	_, err = s.Lookup(ctx, "aaaa")
	assert.ErrorIs(t, err, ErrAmbiguous)

	id, err = s.Lookup(ctx, "aaaa0000-0000-4000-8000-00000000000")
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.Equal(t, uuid.Nil, id)

	_, err = s.Lookup(ctx, "bbbb")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Lookup(ctx, "%")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "captures.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	rec := NewScopeRecord("", "persisted", scopeCapture())
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Label)
}

func TestWriteCSVScope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, NewScopeRecord("", "", scopeCapture())))

	want := strings.Join([]string{
		"time_s,ch0_V,ch1_V",
		"0,0,-1",
		"0.001,0.5,-0.5",
		"0.002,1,0",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVLogic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, NewLogicRecord("", "", logicCapture(), 2)))

	want := strings.Join([]string{
		"time_s,dio0,dio1",
		"0,1,0",
		"1e-06,0,1",
		"2e-06,1,1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	assert.Error(t, WriteCSV(&bytes.Buffer{}, &Record{}))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestStreamMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStreamMetrics(reg)

	m.Observe(dwf.Chunk{Channels: []dwf.ChannelData{{Samples: make([]units.Voltage, 16)}}, Lost: 3, Corrupted: 1})
	m.Observe(dwf.Chunk{Channels: []dwf.ChannelData{{Samples: make([]units.Voltage, 4)}}})
	m.Observe(dwf.Chunk{})

	assert.Equal(t, 20.0, counterValue(t, reg, "dwf_stream_samples_total"))
	assert.Equal(t, 3.0, counterValue(t, reg, "dwf_stream_lost_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "dwf_stream_corrupted_total"))
	assert.Equal(t, 3.0, counterValue(t, reg, "dwf_stream_chunks_total"))
}

func TestAppendChunkFromStream(t *testing.T) {
	devs, err := dwf.Enumerate(dwf.NewSimulator(), dwf.EnumFilterAll)
	require.NoError(t, err)
	h, err := devs[0].Open(dwf.WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	defer h.Close()

	scope := h.Oscilloscope()
	require.NoError(t, scope.SetSampleFrequency(units.Kilohertz(1)))
	require.NoError(t, scope.SetRecordLength(units.Milliseconds(50)))
	require.NoError(t, scope.SetBufferSize(16))

	var all dwf.Capture
	err = scope.Stream(context.Background(), func(c dwf.Chunk) error {
		AppendChunk(&all, c)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, units.Kilohertz(1), all.Rate)
	require.Len(t, all.Channels, 2)
	assert.Equal(t, 50, all.Len())
	assert.Equal(t, 1, all.Channels[1].Index)
}
