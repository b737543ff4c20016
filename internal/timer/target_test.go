package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "25", want: 1500},
		{in: " 90 ", want: 5400},
		{in: "0.5", want: 30},
		{in: "1h30m", want: 5400},
		{in: "45s", want: 45},
		{in: "", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-10", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "soon", wantErr: true},
		{in: "500ms", wantErr: true},
		{in: "1e300", wantErr: true},
		{in: "-1e300", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTarget(t *testing.T) {
	est := int64(1800)
	zero := int64(0)

	got, ok := ResolveTarget(600, true, &est)
	assert.True(t, ok)
	assert.Equal(t, int64(600), got, "local wins")

	got, ok = ResolveTarget(0, false, &est)
	assert.True(t, ok)
	assert.Equal(t, int64(1800), got, "estimate fallback")

	_, ok = ResolveTarget(0, false, &zero)
	assert.False(t, ok)

	_, ok = ResolveTarget(0, false, nil)
	assert.False(t, ok)
}

func TestValidateTarget(t *testing.T) {
	assert.NoError(t, ValidateTarget(1))
	assert.Error(t, ValidateTarget(0))
	assert.Error(t, ValidateTarget(-1))
}
