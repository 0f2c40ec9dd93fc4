package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"http://127.0.0.1:5000/api/v1/quotes", "quotes"},
		{"http://127.0.0.1:5000/api/v1/quotes/", "quotes"},
		{"orderbook", "orderbook"},
		{"PLACEORDER", "placeorder"},
		{"", "unknown"},
		{"///", "unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, EndpointFromURL(tc.url), "url %q", tc.url)
	}
}

func TestDefaultSchemas(t *testing.T) {
	schemas := DefaultSchemas()

	assert.Equal(t, FormatKeyValue, schemas["quotes"].Format)
	assert.Equal(t, "symbol", schemas["quotes"].TitleField)
	assert.Equal(t, "Account Funds", schemas["funds"].Title)
	assert.Equal(t, "timestamp", schemas["orderbook"].SortBy)
	assert.Equal(t, FormatTable, schemas["holdings"].Format)

	_, known := schemas["history"]
	assert.False(t, known)
}
