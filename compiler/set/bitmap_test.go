package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmap(t *testing.T) {
	s := MakeBitmap(10)

	s.Set(3)
	s.Set(64)
	s.Set(300)
	s.Set(3)

	assert.True(t, s.IsSet(3))
	assert.True(t, s.IsSet(300))
	assert.False(t, s.IsSet(4))
	assert.False(t, s.IsSet(100000))
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, []int{3, 64, 300}, s.Slice())

	s.Clear(64)
	s.Clear(100000)

	assert.False(t, s.IsSet(64))
	assert.Equal(t, []int{3, 300}, s.Slice())

	s.Reset()

	assert.Equal(t, 0, s.Size())
	assert.Nil(t, s.Slice())
}

func TestBitmapRangeStop(t *testing.T) {
	var s Bitmap

	for _, a := range []int{1, 2, 3, 200} {
		s.Set(a)
	}

	var got []int

	s.Range(func(a int) bool {
		got = append(got, a)
		return len(got) < 2
	})

	assert.Equal(t, []int{1, 2}, got)
}

func TestBitmapSpans(t *testing.T) {
	s := MakeBitmap(1 << 15)

	for _, a := range []int{0, 256, 257, 258, 62, 63, 64, 65, 2048} {
		s.Set(a)
	}

	sp := s.Spans()

	assert.Equal(t, []Span{{0, 1}, {62, 66}, {256, 259}, {2048, 2049}}, sp)
	assert.Equal(t, 4, sp[1].Len())

	s.Reset()
	assert.Nil(t, s.Spans())
}
