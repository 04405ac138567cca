package utils

import (
	"errors"
	"math"
	"testing"
)

func TestValidateAsset(t *testing.T) {
	tests := []struct {
		name    string
		asset   string
		wantErr bool
	}{
		// Valid assets
		{"valid BTC", "BTC", false},
		{"valid ETH", "ETH", false},
		{"valid SOL", "SOL", false},
		{"valid lowercase", "btc", false},
		{"valid with numbers", "1INCH", false},
		{"valid single char", "X", false},
		{"valid 12 chars", "ABCDEFGHIJKL", false},

		// Invalid assets
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", "ABCDEFGHIJKLM", true},
		{"special chars", "BTC@", true},
		{"with space", "BT C", true},
		{"with slash", "BTC/USDT", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAsset(tt.asset)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAsset(%q) error = %v, wantErr %v", tt.asset, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeAsset(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "btc", "BTC"},
		{"with spaces", "  eth  ", "ETH"},
		{"already normalized", "SOL", "SOL"},
		{"mixed case", "Btc", "BTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeAsset(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeAsset(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidatePositionSize(t *testing.T) {
	tests := []struct {
		name    string
		size    float64
		wantErr bool
	}{
		{"valid positive", 1.5, false},
		{"valid zero", 0, false},
		{"valid negative (short)", -2.0, false},
		{"valid large", 1e9, false},
		{"NaN", math.NaN(), true},
		{"positive Inf", math.Inf(1), true},
		{"negative Inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositionSize(tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositionSize(%v) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNotFinite) {
				t.Errorf("ожидали ErrNotFinite в цепочке, получили %v", err)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		wantErr   bool
	}{
		{"valid middle", 0.5, false},
		{"valid lower bound", 0, false},
		{"valid upper bound", 1, false},
		{"valid small", 0.05, false},
		{"negative", -0.1, true},
		{"above 1", 1.5, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThreshold(tt.threshold)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThreshold(%v) error = %v, wantErr %v", tt.threshold, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSubscriberID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "chat-42", false},
		{"valid numeric", "123456", false},
		{"empty", "", true},
		{"whitespace only", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubscriberID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubscriberID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestIsValidAsset(t *testing.T) {
	if !IsValidAsset("BTC") {
		t.Error("IsValidAsset(BTC) = false, want true")
	}
	if IsValidAsset("") {
		t.Error("IsValidAsset('') = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors

	errs.Add("field1", "error1")
	errs.Add("field2", "error2")

	if !errs.HasErrors() {
		t.Error("ValidationErrors.HasErrors() = false, want true")
	}

	errStr := errs.Error()
	if errStr == "" {
		t.Error("ValidationErrors.Error() should not be empty")
	}

	if len(errs) != 2 {
		t.Errorf("ValidationErrors length = %d, want 2", len(errs))
	}
}

func TestValidationErrorsAddError(t *testing.T) {
	var errs ValidationErrors

	// Should not add nil error
	errs.AddError("field1", nil)
	if errs.HasErrors() {
		t.Error("ValidationErrors.AddError(nil) should not add error")
	}

	// Should add non-nil error
	errs.AddError("asset", ErrEmptyAsset)
	if !errs.HasErrors() {
		t.Error("ValidationErrors.AddError(err) should add error")
	}
}

// Benchmarks

func BenchmarkValidateAsset(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ValidateAsset("BTC")
	}
}

func BenchmarkValidateThreshold(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ValidateThreshold(0.5)
	}
}
