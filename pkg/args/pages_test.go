package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePages(t *testing.T) {
	tests := []struct {
		spec    string
		want    []PageRange
		wantErr string
	}{
		{spec: "1", want: []PageRange{{1, 1}}},
		{spec: "1,3-5,8-,-2", want: []PageRange{{1, 1}, {3, 5}, {8, 0}, {0, 2}}},
		{spec: " 2 - 4 ", wantErr: "not a valid page number"},
		{spec: "2-4, 6", want: []PageRange{{2, 4}, {6, 6}}},
		{spec: "", wantErr: "empty entry"},
		{spec: "1,,2", wantErr: "empty entry"},
		{spec: "-", wantErr: "start or end"},
		{spec: "0", wantErr: "start at one"},
		{spec: "x", wantErr: "not a valid page number"},
		{spec: "5-3", wantErr: "after the start"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParsePages(tt.spec)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageRangeContains(t *testing.T) {
	assert.True(t, PageRange{3, 5}.Contains(3))
	assert.True(t, PageRange{3, 5}.Contains(5))
	assert.False(t, PageRange{3, 5}.Contains(6))
	assert.True(t, PageRange{8, 0}.Contains(100))
	assert.False(t, PageRange{8, 0}.Contains(7))
	assert.True(t, PageRange{0, 2}.Contains(1))
}

func TestPageRangeString(t *testing.T) {
	assert.Equal(t, "4", PageRange{4, 4}.String())
	assert.Equal(t, "3-5", PageRange{3, 5}.String())
	assert.Equal(t, "8-", PageRange{8, 0}.String())
	assert.Equal(t, "-2", PageRange{0, 2}.String())
}
