package utils

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithFailOpenDefault(t *testing.T) {
	var seen error
	got := WithFailOpenDefault(func() (int, error) {
		return 0, errors.New("boom")
	}, 42, func(err error) { seen = err })

	assert.Equal(t, 42, got)
	assert.EqualError(t, seen, "boom")

	got = WithFailOpenDefault(func() (int, error) { return 7, nil }, 42, nil)
	assert.Equal(t, 7, got)
}

func TestFind(t *testing.T) {
	items := []string{"casual", "sick", "earned"}

	found := Find(items, func(s string) bool { return s == "sick" })
	if assert.NotNil(t, found) {
		*found = "medical"
	}
	assert.Equal(t, "medical", items[1])

	assert.Nil(t, Find(items, func(s string) bool { return s == "unpaid" }))
}

func TestPtr(t *testing.T) {
	p := Ptr("2024-03-10")
	assert.Equal(t, "2024-03-10", *p)
	assert.NotSame(t, p, Ptr("2024-03-10"))
}

func TestFilterAndMap(t *testing.T) {
	ids := []int64{4, 0, 9}
	kept := Filter(ids, func(id int64) bool { return id != 0 })
	assert.Equal(t, []int64{4, 9}, kept)
	assert.NotNil(t, Filter(ids, func(int64) bool { return false }))

	assert.Equal(t, []string{"#4", "#9"}, Map(kept, func(id int64) string { return "#" + strconv.FormatInt(id, 10) }))
}

func TestDigitsOnlyAndFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "9876543210", DigitsOnly("+98-76 54(32)10"))
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2024-03-10T09:30:00Z", time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)},
		{"date only", "2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"naive datetime", "2024-03-10T09:30:00", time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISOTime(tt.input)
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(*got))
		})
	}

	_, err := ParseISOTime("not a date")
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 10, 0, 5, 0, 0, IndiaTZ)
	b := time.Date(2024, 3, 10, 23, 55, 0, 0, IndiaTZ)
	c := time.Date(2024, 3, 11, 0, 0, 0, 0, IndiaTZ)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}
