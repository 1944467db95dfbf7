package sync

import "testing"

func TestNormalizeDueDate(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  *string
	}{
		{"nil stays nil", nil, nil},
		{"empty becomes nil", strptr(""), nil},
		{"canonical passes verbatim", strptr("2025-12-07"), strptr("2025-12-07")},
		{"month name", strptr("Dec 7, 2025"), strptr("2025-12-07")},
		{"full month name", strptr("December 7, 2025"), strptr("2025-12-07")},
		{"rfc3339 truncates to date", strptr("2025-12-07T15:30:00Z"), strptr("2025-12-07")},
		{"slash format", strptr("12/07/2025"), strptr("2025-12-07")},
		{"garbage becomes nil", strptr("not-a-date"), nil},
		{"whitespace trimmed", strptr("  2025-12-07  "), strptr("2025-12-07")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDueDate(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %q, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("got nil, want %q", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("got %q, want %q", *got, *tt.want)
			}
		})
	}
}
