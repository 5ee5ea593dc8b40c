package config

import (
	"errors"
	"testing"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Directive
		wantOK  bool
		wantErr error
	}{
		{
			name:   "from with qualified type",
			text:   "//go:structconv:from=pb.User",
			want:   Directive{Key: KeyFrom, Type: "pb.User"},
			wantOK: true,
		},
		{
			name:   "to with import path",
			text:   "//go:structconv:to=github.com/acme/api/pb.User",
			want:   Directive{Key: KeyTo, Type: "github.com/acme/api/pb.User"},
			wantOK: true,
		},
		{
			name:   "surrounding spaces",
			text:   "//go:structconv:to = Local ",
			want:   Directive{Key: KeyTo, Type: "Local"},
			wantOK: true,
		},
		{
			name: "plain comment",
			text: "// User is a user.",
		},
		{
			name: "other tool",
			text: "//go:generate structconv",
		},
		{
			name:    "unknown key",
			text:    "//go:structconv:both=pb.User",
			wantOK:  true,
			wantErr: ErrUnknownDirective,
		},
		{
			name:    "missing value",
			text:    "//go:structconv:from",
			wantOK:  true,
			wantErr: ErrEmptyDirective,
		},
		{
			name:    "empty value",
			text:    "//go:structconv:from=",
			wantOK:  true,
			wantErr: ErrEmptyDirective,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseDirective(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseDirective(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDirective(%q) error = %v, want %v", tt.text, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirective(%q) unexpected error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirective(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
