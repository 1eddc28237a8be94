package model

import "testing"

func TestParseNodeStyle(t *testing.T) {
	tests := []struct {
		in   string
		want NodeStyle
		ok   bool
	}{
		{"rect", StyleRect, true},
		{"underline", StyleUnderline, true},
		{"none", StyleNone, true},
		{"RECT", "", false},
		{"", "", false},
		{"squiggle", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseNodeStyle(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("ParseNodeStyle(%q) = %v %v, want %v %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseLayoutMode(t *testing.T) {
	tests := []struct {
		in   string
		want LayoutMode
		ok   bool
	}{
		{"bidirectional", LayoutBidirectional, true},
		{"ltr", LayoutLTR, true},
		{"rtl", LayoutRTL, true},
		{"both", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLayoutMode(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("ParseLayoutMode(%q) = %v %v", tt.in, got, ok)
		}
	}
}

func TestParseConnectorStyle(t *testing.T) {
	tests := []struct {
		in   string
		want ConnectorStyle
		ok   bool
	}{
		{"curved", ConnectorCurved, true},
		{"straight", ConnectorStraight, true},
		{"zigzag", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseConnectorStyle(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("ParseConnectorStyle(%q) = %v %v", tt.in, got, ok)
		}
	}
}
