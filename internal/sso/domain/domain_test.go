package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_Expired(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Session{Username: "alice", CreatedAt: created}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just created", created, false},
		{"one second before expiry", created.Add(59 * time.Second), false},
		{"exactly at expiry", created.Add(time.Minute), true},
		{"after expiry", created.Add(2 * time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.Expired(tt.now, time.Minute))
		})
	}
}

func TestSession_JSON(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	in := Session{ID: "ignored", Username: "alice", IP: "10.0.0.1", CreatedAt: created}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"username":"alice","ip":"10.0.0.1","timestamp":"2026-03-04T05:06:07Z"}`, string(data))

	var out Session
	require.NoError(t, json.Unmarshal(data, &out))
	require.Empty(t, out.ID)
	require.Equal(t, "alice", out.Username)
	require.True(t, created.Equal(out.CreatedAt))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "rfc3339",
			in:   "2026-03-04T05:06:07Z",
			want: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		},
		{
			name: "legacy with zone name",
			in:   "Wed Mar 04 2026 15:06:07 GMT+1000 (Australian Eastern Standard Time)",
			want: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		},
		{
			name: "legacy without zone name",
			in:   "Wed Mar 04 2026 05:06:07 GMT+0000",
			want: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestSettings_AllowLists(t *testing.T) {
	s := &Settings{
		ValidOrigins:      []string{"https://app.example.com"},
		ValidCallbackURLs: []string{"https://app.example.com/"},
		ValidAudiences:    []string{"app"},
	}

	require.True(t, s.IsValidOrigin("https://app.example.com"))
	require.False(t, s.IsValidOrigin("https://APP.example.com"))
	require.False(t, s.IsValidOrigin(""))
	require.True(t, s.IsValidCallbackURL("https://app.example.com/"))
	require.False(t, s.IsValidCallbackURL("https://app.example.com"))
	require.True(t, s.IsValidAudience("app"))
	require.False(t, s.IsValidAudience("App"))

	empty := &Settings{}
	require.False(t, empty.IsValidAudience("app"))
	require.False(t, empty.IsValidOrigin("https://app.example.com"))
}
