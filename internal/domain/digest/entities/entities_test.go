package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrequency_Due(t *testing.T) {
	tests := []struct {
		name    string
		freq    Frequency
		elapsed int64
		want    bool
	}{
		{name: "realtime zero", freq: FrequencyRealtime, elapsed: 0, want: true},
		{name: "realtime negative", freq: FrequencyRealtime, elapsed: -10, want: true},
		{name: "hourly below", freq: FrequencyHourly, elapsed: 3000, want: false},
		{name: "hourly at threshold", freq: FrequencyHourly, elapsed: 3600, want: false},
		{name: "hourly above", freq: FrequencyHourly, elapsed: 3601, want: true},
		{name: "daily at hourly threshold", freq: FrequencyDaily, elapsed: 3601, want: false},
		{name: "daily at threshold", freq: FrequencyDaily, elapsed: 86400, want: false},
		{name: "daily above", freq: FrequencyDaily, elapsed: 86401, want: true},
		{name: "unknown never", freq: Frequency(9), elapsed: 1 << 40, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.freq.Due(tt.elapsed))
		})
	}
}

func TestSubscription_NextEligible(t *testing.T) {
	s := Subscription{Frequency: FrequencyHourly, LastSentTime: 1000}
	require.EqualValues(t, 4601, s.NextEligible())
	require.False(t, s.Due(s.NextEligible()-1))
	require.True(t, s.Due(s.NextEligible()))

	s.Frequency = FrequencyRealtime
	require.EqualValues(t, 1000, s.NextEligible())
	require.True(t, s.Due(1000))
}

func TestEnumScan(t *testing.T) {
	var f Frequency
	require.NoError(t, f.Scan(int64(2)))
	require.Equal(t, FrequencyDaily, f)
	require.Error(t, f.Scan(int64(3)))

	var m DeliveryMethod
	require.NoError(t, m.Scan(int64(2)))
	require.Equal(t, DeliveryBoth, m)
	require.Error(t, m.Scan(int64(-1)))
}

func TestDeliveryMethod_Includes(t *testing.T) {
	require.True(t, DeliveryBoth.Includes(ChannelEmail))
	require.True(t, DeliveryBoth.Includes(ChannelTelegram))
	require.True(t, DeliveryEmailOnly.Includes(ChannelEmail))
	require.False(t, DeliveryEmailOnly.Includes(ChannelTelegram))
	require.False(t, DeliveryTelegramOnly.Includes(ChannelEmail))

	for _, m := range MethodsFor(ChannelTelegram) {
		require.True(t, m.Includes(ChannelTelegram))
	}
	require.Nil(t, MethodsFor(Channel("sms")))
}

func TestPartialSubscription_Columns(t *testing.T) {
	sent := int64(500)
	prev := int64(100)
	p := &PartialSubscription{LastSentTime: &sent, IfLastSentTime: &prev}

	cols := p.Columns()
	require.Equal(t, map[string]any{"last_sent_time": int64(500)}, cols)
}
