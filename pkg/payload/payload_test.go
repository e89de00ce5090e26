package payload

import (
	"reflect"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Strategy
	}{
		{"json object", `{"a":1}`, StrategyJSON},
		{"json with separators inside value", `{"a":"x=1&y=2;z"}`, StrategyJSON},
		{"json with surrounding whitespace", "  {\"name\": \"mask\"}\n", StrategyJSON},
		{"json array falls through to delimiter", `[1,2]`, StrategyDelimited},
		{"json null falls through", `null`, StrategyRaw},
		{"json with trailing data", `{"a":1} extra`, StrategyRaw},
		{"malformed json with separators", `{"a":1;`, StrategyDelimited},
		{"query", "t=20251115T1213&s=150.00", StrategyQuery},
		{"query without pairs", "&&&=", StrategyQuery},
		{"equals without ampersand", "a=1;b=2", StrategyDelimited},
		{"semicolon", "a;b", StrategyDelimited},
		{"comma", "a,b", StrategyDelimited},
		{"pipe", "a|b", StrategyDelimited},
		{"plain text", "hello world", StrategyRaw},
		{"empty", "", StrategyRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)
			if result.Strategy != tt.expected {
				t.Errorf("Parse(%q).Strategy = %v, expected %v", tt.raw, result.Strategy, tt.expected)
			}
			if result.Original != tt.raw {
				t.Errorf("Parse(%q).Original = %v, expected the raw input", tt.raw, result.Original)
			}
		})
	}
}

func TestParseJSONKeepsNumbersVerbatim(t *testing.T) {
	result := Parse(`{"fn": 7380440801230307, "s": 150.00, "ok": true}`)

	tests := map[string]string{
		"fn": "7380440801230307",
		"s":  "150.00",
		"ok": "true",
	}
	for key, expected := range tests {
		got, ok := result.String(key)
		if !ok {
			t.Fatalf("key %q missing", key)
		}
		if got != expected {
			t.Errorf("String(%q) = %q, expected %q", key, got, expected)
		}
	}
}

func TestParseQuery(t *testing.T) {
	raw := "t=20251115T1213&s=150.00&fn=7380440801230307&i=3562&fp=1980160056&n=1&noise&url=a=b"
	result := Parse(raw)

	expected := map[string]any{
		"t":   "20251115T1213",
		"s":   "150.00",
		"fn":  "7380440801230307",
		"i":   "3562",
		"fp":  "1980160056",
		"n":   "1",
		"url": "a=b",
	}
	if !reflect.DeepEqual(result.Fields, expected) {
		t.Errorf("Parse(%q).Fields = %v, expected %v", raw, result.Fields, expected)
	}

	expectedKeys := []string{"t", "s", "fn", "i", "fp", "n", "url"}
	if !reflect.DeepEqual(result.Keys, expectedKeys) {
		t.Errorf("Parse(%q).Keys = %v, expected %v", raw, result.Keys, expectedKeys)
	}
}

func TestParseQueryEmptyIsStillMapping(t *testing.T) {
	result := Parse("a&b=")
	if !result.IsMapping() {
		t.Fatal("expected a mapping")
	}
	if len(result.Fields) != 1 || result.Fields["b"] != "" {
		t.Errorf("Fields = %v, expected only b=\"\"", result.Fields)
	}
}

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected map[string]any
	}{
		{
			"semicolon with cyrillic",
			"Защитные очки;EN166;2026-06-30;Очковый завод",
			map[string]any{
				"field_0": "Защитные очки",
				"field_1": "EN166",
				"field_2": "2026-06-30",
				"field_3": "Очковый завод",
			},
		},
		{
			"semicolon wins over comma",
			" a, b ; c ",
			map[string]any{"field_0": "a, b", "field_1": "c"},
		},
		{
			"comma wins over pipe",
			"a|b,c",
			map[string]any{"field_0": "a|b", "field_1": "c"},
		},
		{
			"trailing delimiter",
			"x|",
			map[string]any{"field_0": "x", "field_1": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)
			if !reflect.DeepEqual(result.Fields, tt.expected) {
				t.Errorf("Parse(%q).Fields = %v, expected %v", tt.raw, result.Fields, tt.expected)
			}
		})
	}
}

func TestParseRawWrapper(t *testing.T) {
	result := Parse("just text")
	if result.IsMapping() {
		t.Error("raw wrapper must not be a mapping")
	}
	if got, _ := result.String(RawDataKey); got != "just text" {
		t.Errorf("raw_data = %q, expected %q", got, "just text")
	}
}

func TestFromMap(t *testing.T) {
	src := map[string]any{"name": "mask", "count": 2}
	result := FromMap(src)

	if result.Strategy != StrategyObject {
		t.Errorf("Strategy = %v, expected %v", result.Strategy, StrategyObject)
	}
	if !reflect.DeepEqual(result.Keys, []string{"count", "name"}) {
		t.Errorf("Keys = %v, expected sorted keys", result.Keys)
	}

	// Mutating the structure must not leak into the caller's map.
	result.Fields["extra"] = true
	if _, ok := src["extra"]; ok {
		t.Error("FromMap shares the caller's map")
	}
}
