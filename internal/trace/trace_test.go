package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/native/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestWriterReader(t *testing.T) {
	records := []Record{
		{Kind: KindKey, Time: 0.5, Ints: []int64{int64(input.KeyA), 30, 1, 0}},
		{Kind: KindPos, Time: 1, Ints: []int64{-1920, 40}},
		{Kind: KindCursorPos, Time: 1.25, Floats: []float64{10.5, -3}},
		{Kind: KindDrop, Time: 2, Strings: []string{"/tmp/a b.txt", "/tmp/ü"}},
		{Kind: KindRefresh},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, 5, w.Count())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(magic)))

	got, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReaderErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader([]byte("NOTATRACE"))).Next()
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader(nil)).Next()
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("empty trace", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf).Flush())
		got, err := NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("truncated record", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		require.NoError(t, w.Write(Record{Kind: KindScroll, Floats: []float64{0, 1}}))
		require.NoError(t, w.Flush())
		data := buf.Bytes()[:buf.Len()-3]
		_, err := NewReader(bytes.NewReader(data)).Next()
		assert.Error(t, err)
	})

	t.Run("oversized length", func(t *testing.T) {
		data := append([]byte(magic), 0xff, 0xff, 0xff, 0xff)
		_, err := NewReader(bytes.NewReader(data)).Next()
		assert.ErrorIs(t, err, ErrRecordTooLarge)
	})
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	b := Record{Kind: KindFocus, Ints: []int64{1}}.AppendBinary(nil)
	b = protowire.AppendTag(b, 42, protowire.BytesType)
	b = protowire.AppendString(b, "from a newer writer")
	b = protowire.AppendTag(b, 43, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	var r Record
	require.NoError(t, r.UnmarshalBinary(b))
	assert.Equal(t, KindFocus, r.Kind)
	assert.True(t, r.Bool())

	assert.Error(t, r.UnmarshalBinary([]byte{0x08}), "truncated varint")
}

func TestKindOutOfRangeDecodesAsUnknown(t *testing.T) {
	for _, v := range []uint64{uint64(kindEnd), 257, 1 << 40} {
		b := protowire.AppendTag(nil, fieldKind, protowire.VarintType)
		b = protowire.AppendVarint(b, v)

		var r Record
		require.NoError(t, r.UnmarshalBinary(b))
		assert.Equal(t, KindUnknown, r.Kind, "kind %d", v)
		assert.Error(t, r.Validate())
	}
}

func TestRecordSizeLimit(t *testing.T) {
	// a drop record with one path costs six bytes beyond the path itself
	largest := Record{Kind: KindDrop, Strings: []string{strings.Repeat("a", maxRecordSize-6)}}
	require.Len(t, largest.AppendBinary(nil), maxRecordSize)

	t.Run("largest accepted record round-trips", func(t *testing.T) {
		var buf bytes.Buffer
		tw := NewWriter(&buf)
		require.NoError(t, tw.Write(largest))
		require.NoError(t, tw.Flush())

		records, err := NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, largest, records[0])
	})

	t.Run("oversized record is rejected before writing", func(t *testing.T) {
		var buf bytes.Buffer
		tw := NewWriter(&buf)
		oversized := Record{Kind: KindDrop, Strings: []string{strings.Repeat("a", maxRecordSize-5)}}
		err := tw.Write(oversized)
		assert.ErrorIs(t, err, ErrRecordTooLarge)
		assert.Equal(t, 0, tw.Count())

		small := Record{Kind: KindDrop, Strings: []string{"/tmp/photo.png"}}
		require.NoError(t, tw.Write(small))
		require.NoError(t, tw.Flush())

		records, err := NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []Record{small}, records)
	})
}

func TestValidate(t *testing.T) {
	assert.Error(t, Record{}.Validate())
	assert.Error(t, Record{Kind: Kind(200)}.Validate())
	assert.Error(t, Record{Kind: KindKey, Ints: []int64{65}}.Validate())
	assert.NoError(t, Record{Kind: KindClose}.Validate())

	err := NewWriter(&bytes.Buffer{}).Write(Record{Kind: KindScroll})
	assert.ErrorContains(t, err, "scroll record needs")
	assert.Equal(t, "kind(200)", Kind(200).String())
}

func newSimWindow(t *testing.T) (*glfw.Runtime, *sim.Sim, *glfw.Window) {
	t.Helper()
	s := sim.New()
	rt := glfw.New(s)
	require.NoError(t, rt.Init())
	t.Cleanup(func() { _ = rt.Close() })
	w, err := rt.CreateWindow(glfw.DefaultWindowOptions())
	require.NoError(t, err)
	return rt, s, w
}

func stripTimes(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Time = 0
		out[i] = r
	}
	return out
}

func TestRecordAndReplay(t *testing.T) {
	rt, s, w := newSimWindow(t)
	h := w.Handle()

	var recorded bytes.Buffer
	rec := NewRecorder(w, NewWriter(&recorded))

	s.PostKey(h, int32(input.KeyA), 30, int32(input.Press), 0)
	s.PostChar(h, 'a', 0)
	s.PostCursorPos(h, 10.5, 20)
	s.PostMouseButton(h, int32(input.MouseButtonLeft), int32(input.Press), 0)
	s.PostScroll(h, 0, -1)
	s.PostDrop(h, "/tmp/photo.png")
	s.PostSize(h, 640, 480)
	s.PostFocus(h, false)
	s.PostClose(h)
	require.NoError(t, rt.PollEvents())
	require.NoError(t, rec.Stop())
	require.NoError(t, rec.Stop())

	original, err := NewReader(bytes.NewReader(recorded.Bytes())).ReadAll()
	require.NoError(t, err)

	kinds := make([]Kind, len(original))
	for i, r := range original {
		kinds[i] = r.Kind
	}
	assert.Equal(t, []Kind{
		KindKey, KindChar, KindCursorPos, KindMouseButton, KindScroll, KindDrop,
		KindSize, KindKey, KindMouseButton, KindFocus, KindClose,
	}, kinds)
	assert.Equal(t, []int64{int64(input.KeyA), 0, int64(input.Release), 0}, original[7].Ints,
		"focus loss releases the held key")

	// replay into a fresh window and record what its listeners see
	rt2, s2, w2 := newSimWindow(t)
	var replayed bytes.Buffer
	rec2 := NewRecorder(w2, NewWriter(&replayed))

	rp := &Replayer{Sim: s2, Runtime: rt2, Window: w2}
	n, err := rp.Run(context.Background(), NewReader(bytes.NewReader(recorded.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, len(original), n)
	require.NoError(t, rec2.Stop())

	again, err := NewReader(&replayed).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, stripTimes(original), stripTimes(again))

	shouldClose, err := w2.ShouldClose()
	require.NoError(t, err)
	assert.True(t, shouldClose)
}

func TestReplayStopsWhenWindowDestroyed(t *testing.T) {
	rt, s, w := newSimWindow(t)

	var buf bytes.Buffer
	tw := NewWriter(&buf)
	require.NoError(t, tw.Write(Record{Kind: KindKey, Ints: []int64{int64(input.KeyEscape), 9, 1, 0}}))
	require.NoError(t, tw.Write(Record{Kind: KindKey, Ints: []int64{int64(input.KeyA), 30, 1, 0}}))
	require.NoError(t, tw.Flush())

	var keys []input.Key
	w.Keys.Press.Subscribe(func(a glfw.KeyArgs) {
		keys = append(keys, a.Key)
		if a.Key == input.KeyEscape {
			require.NoError(t, a.Window.Destroy())
		}
	})

	n, err := (&Replayer{Sim: s, Runtime: rt, Window: w}).Run(context.Background(), NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []input.Key{input.KeyEscape}, keys)
}

func TestReplayHonoursContext(t *testing.T) {
	rt, s, w := newSimWindow(t)

	var buf bytes.Buffer
	tw := NewWriter(&buf)
	require.NoError(t, tw.Write(Record{Kind: KindRefresh, Time: 60}))
	require.NoError(t, tw.Flush())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := (&Replayer{Sim: s, Runtime: rt, Window: w, Speed: 1}).Run(ctx, NewReader(&buf))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}
