package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseViewport(t *testing.T) {
	tests := []struct {
		input   string
		want    Viewport
		wantErr bool
	}{
		{input: "1280x720", want: Viewport{Width: 1280, Height: 720}},
		{input: "  390x844 ", want: Viewport{Width: 390, Height: 844}},
		{input: "10x10", want: Viewport{Width: 10, Height: 10}},
		{input: "1280X720", wantErr: true},
		{input: "1280*720", wantErr: true},
		{input: "1x720", wantErr: true},
		{input: "123456x720", wantErr: true},
		{input: "", wantErr: true},
		{input: "wide", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseViewport(tt.input)
			if tt.wantErr {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
				assert.Equal(t, "viewport", ve.Field)
				assert.Contains(t, ve.Error(), "WIDTHxHEIGHT")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "https://example.com", want: "https://example.com/"},
		{input: "http://example.com/pricing?plan=pro", want: "http://example.com/pricing?plan=pro"},
		{input: " https://example.com/a ", want: "https://example.com/a"},
		{input: "ftp://example.com", wantErr: true},
		{input: "javascript:alert(1)", wantErr: true},
		{input: "example.com", wantErr: true},
		{input: "https://", wantErr: true},
		{input: "", wantErr: true},
		{input: "http://[::1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
				assert.Equal(t, "url", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLeadingInt(t *testing.T) {
	assert.Equal(t, 3, ParseLeadingInt("3", 1))
	assert.Equal(t, 12, ParseLeadingInt("12px", 1))
	assert.Equal(t, -5, ParseLeadingInt("-5", 0))
	assert.Equal(t, 0, ParseLeadingInt("0", 1))
	assert.Equal(t, 1, ParseLeadingInt("abc", 1))
	assert.Equal(t, 1, ParseLeadingInt("", 1))
	assert.Equal(t, 7, ParseLeadingInt("-", 7))
}
