package domain

import (
	"testing"
)

func TestNewEntityType(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    EntityType
		wantErr bool
	}{
		{
			name:    "valid exploration",
			value:   "exploration",
			want:    EntityExploration,
			wantErr: false,
		},
		{
			name:    "invalid skill",
			value:   "skill",
			wantErr: true,
		},
		{
			name:    "invalid uppercase",
			value:   "Exploration",
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
			got, err := NewEntityType(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEntityType() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NewEntityType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntityType_String(t *testing.T) {
	if got := EntityExploration.String(); got != "exploration" {
		t.Errorf("EntityType.String() = %v, want %v", got, "exploration")
	}
}
