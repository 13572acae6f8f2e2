package gcd

import "testing"

func TestReprintIssueLabel(t *testing.T) {
	tests := []struct {
		name  string
		issue ReprintIssue
		want  string
	}{
		{
			name:  "plain issue",
			issue: ReprintIssue{Series: "Daredevil", Number: "181", YearBegan: 1964},
			want:  "Daredevil (1964) #181",
		},
		{
			name:  "alphanumeric number",
			issue: ReprintIssue{Series: "Amazing Fantasy", Number: "15A", YearBegan: 1962},
			want:  "Amazing Fantasy (1962) #15A",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCollection(t *testing.T) {
	tests := []struct {
		publicationType string
		want            bool
	}{
		{"tpb", true},
		{"TPB", true},
		{"tpb; hardcover", true},
		{"ongoing series", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isCollection(tt.publicationType); got != tt.want {
			t.Errorf("isCollection(%q) = %v, want %v", tt.publicationType, got, tt.want)
		}
	}
}
