package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "defaults", in: Params{}, want: Params{Page: 1, Limit: DefaultLimit}},
		{name: "negative page", in: Params{Page: -3, Limit: 10}, want: Params{Page: 1, Limit: 10}},
		{name: "limit capped", in: Params{Page: 2, Limit: 500}, want: Params{Page: 2, Limit: MaxLimit}},
		{name: "passthrough", in: Params{Page: 4, Limit: 50}, want: Params{Page: 4, Limit: 50}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(Params{Page: 1, Limit: 20}))
	assert.Equal(t, 40, Offset(Params{Page: 3, Limit: 20}))
	assert.Equal(t, 0, Offset(Params{}))
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 25)
	assert.Equal(t, Meta{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, meta)

	meta = NewMeta(Params{Page: 1, Limit: 10}, 30)
	assert.Equal(t, 3, meta.TotalPages)

	meta = NewMeta(Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, meta.TotalPages)
}
