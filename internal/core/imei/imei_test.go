package imei

import (
	"testing"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    IMEI
		wantErr bool
	}{
		{name: "valid", raw: "356938035643809", want: "356938035643809"},
		{name: "surrounding whitespace trimmed", raw: "  356938035643809 ", want: "356938035643809"},
		{name: "too short", raw: "35693803564380", wantErr: true},
		{name: "too long", raw: "3569380356438091", wantErr: true},
		{name: "letters", raw: "35693803564380a", wantErr: true},
		{name: "internal whitespace", raw: "356938 35643809", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %q", tt.raw, got)
				}
				appErr, ok := apperror.AsAppError(err)
				if !ok || appErr.Code != apperror.CodeMalformedIMEI {
					t.Errorf("Parse(%q) error code = %v, want MALFORMED_IMEI", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseBatch_DuplicateRejectsBatch(t *testing.T) {
	_, err := ParseBatch([]string{"356938035643809", "356938035643810", "356938035643809"})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Errorf("error code = %v, want VALIDATION_ERROR", err)
	}
}

func TestParseBatch_MalformedRejectsBatch(t *testing.T) {
	_, err := ParseBatch([]string{"356938035643809", "bad"})
	if err == nil {
		t.Fatal("expected malformed error")
	}
}

func TestParseBatch_OK(t *testing.T) {
	out, err := ParseBatch([]string{"356938035643809", "356938035643810"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 IMEIs, got %d", len(out))
	}
}
