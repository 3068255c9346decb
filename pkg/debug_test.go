package audiodedupe

import (
	"testing"
)

func TestSetDebugFlags(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		expectedScan     bool
		expectedProvider bool
		expectedCache    bool
		expectedWalk     bool
	}{
		{
			name:             "empty string",
			input:            "",
			expectedScan:     false,
			expectedProvider: false,
			expectedCache:    false,
			expectedWalk:     false,
		},
		{
			name:             "single option",
			input:            "scan",
			expectedScan:     true,
			expectedProvider: false,
			expectedCache:    false,
			expectedWalk:     false,
		},
		{
			name:             "multiple options",
			input:            "scan,provider,cache,walk",
			expectedScan:     true,
			expectedProvider: true,
			expectedCache:    true,
			expectedWalk:     true,
		},
		{
			name:             "options with values",
			input:            "scan:true,provider:false,cache:1,walk:0",
			expectedScan:     true,
			expectedProvider: false,
			expectedCache:    true,
			expectedWalk:     false,
		},
		{
			name:             "mixed format",
			input:            "scan,provider:false,cache",
			expectedScan:     true,
			expectedProvider: false,
			expectedCache:    true,
			expectedWalk:     false,
		},
		{
			name:             "whitespace handling",
			input:            " scan , provider , cache ",
			expectedScan:     true,
			expectedProvider: true,
			expectedCache:    true,
			expectedWalk:     false,
		},
		{
			name:             "case insensitive",
			input:            "Scan,PROVIDER,Cache",
			expectedScan:     true,
			expectedProvider: true,
			expectedCache:    true,
			expectedWalk:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset debug flags
			SetDebugFlags("")

			SetDebugFlags(tt.input)

			if IsDebugEnabled("scan") != tt.expectedScan {
				t.Errorf("scan: expected %v, got %v", tt.expectedScan, IsDebugEnabled("scan"))
			}
			if IsDebugEnabled("provider") != tt.expectedProvider {
				t.Errorf("provider: expected %v, got %v", tt.expectedProvider, IsDebugEnabled("provider"))
			}
			if IsDebugEnabled("cache") != tt.expectedCache {
				t.Errorf("cache: expected %v, got %v", tt.expectedCache, IsDebugEnabled("cache"))
			}
			if IsDebugEnabled("walk") != tt.expectedWalk {
				t.Errorf("walk: expected %v, got %v", tt.expectedWalk, IsDebugEnabled("walk"))
			}
		})
	}
}

func TestDebugFlagAccessors(t *testing.T) {
	SetDebugFlags("scan,cache")

	if !IsDebugEnabled("scan") {
		t.Error("Expected IsDebugEnabled('scan') to return true")
	}
	if IsDebugEnabled("provider") {
		t.Error("Expected IsDebugEnabled('provider') to return false")
	}
	if !IsDebugEnabled("cache") {
		t.Error("Expected IsDebugEnabled('cache') to return true")
	}
	if IsDebugEnabled("walk") {
		t.Error("Expected IsDebugEnabled('walk') to return false")
	}

	SetDebugFlags("")
}

func TestDebugFlagCaseInsensitive(t *testing.T) {
	SetDebugFlags("Provider")

	// Should work with different cases
	if !IsDebugEnabled("provider") {
		t.Error("Expected lowercase flag name to work")
	}
	if !IsDebugEnabled("Provider") {
		t.Error("Expected mixed case flag name to work")
	}
	if !IsDebugEnabled("PROVIDER") {
		t.Error("Expected uppercase flag name to work")
	}

	SetDebugFlags("")
}

func TestDebugFlagValueParsing(t *testing.T) {
	tests := []struct {
		input    string
		flag     string
		expected bool
	}{
		{"flag:true", "flag", true},
		{"flag:TRUE", "flag", true},
		{"flag:1", "flag", true},
		{"flag:yes", "flag", true},
		{"flag:on", "flag", true},
		{"flag:false", "flag", false},
		{"flag:FALSE", "flag", false},
		{"flag:0", "flag", false},
		{"flag:no", "flag", false},
		{"flag:off", "flag", false},
		{"flag:unknown", "flag", true}, // Default to true for unknown values
		{"flag", "flag", true},         // Default to true for simple flag names
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetDebugFlags(tt.input)
			result := IsDebugEnabled(tt.flag)
			if result != tt.expected {
				t.Errorf("SetDebugFlags(%q) then IsDebugEnabled(%q) = %v, expected %v", tt.input, tt.flag, result, tt.expected)
			}
		})
	}

	SetDebugFlags("")
}

func TestVerboseLevelRoundTrip(t *testing.T) {
	defer SetVerboseLevel(0)

	for _, level := range []int{0, 1, 2, 3} {
		SetVerboseLevel(level)
		if got := GetVerboseLevel(); got != level {
			t.Errorf("Expected verbose level %d, got %d", level, got)
		}
	}
}

func TestVerboseEnterReturnsCallable(t *testing.T) {
	defer SetVerboseLevel(0)

	// The returned closure must be safe to call at every level
	for _, level := range []int{0, 3} {
		SetVerboseLevel(level)
		done := VerboseEnter()
		if done == nil {
			t.Fatalf("Expected a non-nil closure at level %d", level)
		}
		done()
	}
}
