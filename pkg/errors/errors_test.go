package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "network", err: NewNetworkError("dial", io.EOF), want: "network"},
		{name: "wrapped protocol", err: fmt.Errorf("poll: %w", NewProtocolError("404 Not Found", nil)), want: "protocol"},
		{name: "delivery over network", err: NewDeliveryError("email", NewNetworkError("smtp dial", io.EOF)), want: "network"},
		{name: "plain delivery", err: NewDeliveryError("telegram", errors.New("boom")), want: "delivery"},
		{name: "database", err: NewDatabaseError("database operation failed"), want: "database"},
		{name: "config", err: NewConfigError("no bot token"), want: "config"},
		{name: "unknown", err: errors.New("other"), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NewNetworkError("fetch failed", io.ErrUnexpectedEOF)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Equal(t, "fetch failed: unexpected EOF", err.Error())

	err = NewDeliveryError("telegram", nil)
	require.Equal(t, "telegram delivery failed", err.Error())
	require.True(t, IsDeliveryError(fmt.Errorf("wrapped: %w", err)))
}
