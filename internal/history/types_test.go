package history

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(v int64) *int64 { return &v }

func TestPage_Oldest_Empty(t *testing.T) {
	_, ok := Page{}.Oldest()
	assert.False(t, ok)
}

func TestPage_Oldest_ShuffledPage(t *testing.T) {
	page := make(Page, 0, 50)
	for i := 50; i > 0; i-- {
		page = append(page, Record{Signature: string(rune('A' + i)), BlockTime: ts(int64(i * 10))})
	}

	r := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		shuffled := append(Page(nil), page...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		oldest, ok := shuffled.Oldest()
		require.True(t, ok)
		assert.Equal(t, int64(10), *oldest.BlockTime)
	}
}

func TestPage_OldestFirst_UntimedSortLast(t *testing.T) {
	page := Page{
		{Signature: "pending"},
		{Signature: "b", BlockTime: ts(20)},
		{Signature: "a", BlockTime: ts(10)},
	}

	sorted := page.OldestFirst()
	assert.Equal(t, []string{"a", "b", "pending"}, signatures(sorted))

	// input is left untouched
	assert.Equal(t, "pending", page[0].Signature)
}

func TestPage_Oldest_UntimedTailIsSkipped(t *testing.T) {
	// an unfinalized record listed last still loses to any timed record
	page := Page{
		{Signature: "b", BlockTime: ts(20)},
		{Signature: "a", BlockTime: ts(10)},
		{Signature: "unfinalized"},
	}

	oldest, ok := page.Oldest()
	require.True(t, ok)
	assert.Equal(t, "a", oldest.Signature)
	assert.Equal(t, int64(10), *oldest.BlockTime)
}

func TestPage_OldestFirst_TiesKeepServiceTail(t *testing.T) {
	page := Page{
		{Signature: "newer", BlockTime: ts(5)},
		{Signature: "older", BlockTime: ts(5)},
	}

	oldest, ok := page.Oldest()
	require.True(t, ok)
	assert.Equal(t, "older", oldest.Signature)
}

func TestPage_Oldest_AllUntimed(t *testing.T) {
	page := Page{{Signature: "x"}, {Signature: "y"}}

	oldest, ok := page.Oldest()
	require.True(t, ok)
	assert.Equal(t, "y", oldest.Signature)
	assert.Nil(t, oldest.BlockTime)
}

func TestBlockTimeToUTC_RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 1703417244, 4102444800, -86400} {
		got := BlockTimeToUTC(v)
		assert.Equal(t, v, got.Unix())
		assert.Equal(t, "UTC", got.Location().String())
	}

	assert.Equal(t, "2023-12-24 11:27:24", BlockTimeToUTC(1703417244).Format(DateTimeLayout))
}

func signatures(p Page) []string {
	out := make([]string, len(p))
	for i, rec := range p {
		out[i] = rec.Signature
	}
	return out
}
