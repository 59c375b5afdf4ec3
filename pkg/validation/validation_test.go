package validation

import (
	"strings"
	"testing"
	"time"
)

func TestValidateMessage(t *testing.T) {
	v := NewMessageValidator()
	defer v.Close()

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name:    "Valid control message",
			data:    []byte(`{"throttleUp":true,"pitchDown":false}`),
			wantErr: false,
		},
		{
			name:    "Invalid JSON",
			data:    []byte(`{"throttleUp":`),
			wantErr: true,
		},
		{
			name:    "Oversized message",
			data:    []byte(`{"pad":"` + strings.Repeat("x", MaxMessageSize) + `"}`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMessage(tt.data, "client-1")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateClientName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "Simple name",
			input: "observer-1",
			want:  "observer-1",
		},
		{
			name:  "Trimmed whitespace",
			input: "  hud display  ",
			want:  "hud display",
		},
		{
			name:    "Empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Only whitespace",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "Too long",
			input:   strings.Repeat("a", MaxClientNameLen+1),
			wantErr: true,
		},
		{
			name:    "Control characters",
			input:   "bad\x00name",
			wantErr: true,
		},
		{
			name:    "Disallowed characters",
			input:   "name;drop table",
			wantErr: true,
		},
		{
			name:  "HTML escaped",
			input: "<hud>",
			want:  "&lt;hud&gt;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateClientName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateClientName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ValidateClientName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow("client-a") {
		t.Error("fourth request should be rejected")
	}

	// Other clients have independent buckets.
	if !rl.Allow("client-b") {
		t.Error("a different client should have its own budget")
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(10, 100*time.Millisecond)
	defer rl.Close()

	for i := 0; i < 10; i++ {
		rl.Allow("client")
	}
	if rl.Allow("client") {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(150 * time.Millisecond)

	if !rl.Allow("client") {
		t.Error("bucket should have refilled after the window")
	}
}
