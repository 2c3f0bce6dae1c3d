package domain

import (
	"testing"
)

func TestNewTargetType(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    TargetType
		wantErr bool
	}{
		{
			name:    "valid state",
			value:   "state",
			want:    TargetState,
			wantErr: false,
		},
		{
			name:    "invalid answer group",
			value:   "answer_group",
			wantErr: true,
		},
		{
			name:    "invalid uppercase",
			value:   "State",
			wantErr: true,
		},
		{
			name:    "invalid empty",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTargetType(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTargetType() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NewTargetType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTargetType_String(t *testing.T) {
	if got := TargetState.String(); got != "state" {
		t.Errorf("TargetType.String() = %v, want %v", got, "state")
	}
}
