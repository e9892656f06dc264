package utils

import "testing"

func TestNormalizeWhatsApp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "already E.164 mobile",
			input: "+5491123456789",
			want:  "+5491123456789",
		},
		{
			name:  "spaces and country code",
			input: "+54 9 11 2345 6789",
			want:  "+5491123456789",
		},
		{
			name:  "local number without country code",
			input: "1123456789",
			want:  "+541123456789",
		},
		{
			name:  "local format with trunk prefix and dash",
			input: "011 2345-6789",
			want:  "+541123456789",
		},
		{
			name:  "surrounding whitespace",
			input: "  +5491123456789  ",
			want:  "+5491123456789",
		},
		{
			name:  "foreign number keeps its country",
			input: "+491701234567",
			want:  "+491701234567",
		},
		{
			name:    "too short",
			input:   "123",
			wantErr: true,
		},
		{
			name:    "letters",
			input:   "abcdefghij",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWhatsApp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeWhatsApp(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeWhatsApp(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeWhatsApp(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
