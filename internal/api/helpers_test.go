package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"?limit=1", 1, false},
		{"?limit=200", 200, false},
		{"?limit=0", 0, true},
		{"?limit=201", 0, true},
		{"?limit=-3", 0, true},
		{"?limit=ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/runs"+tt.query, nil)
			got, err := parseLimit(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidLimit)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
