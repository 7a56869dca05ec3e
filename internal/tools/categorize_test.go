package tools

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"Whole Foods Market", CategoryGroceries},
		{"Shell Gas Station", CategoryTransportation},
		{"DoorDash order", CategoryDining},
		{"Blue Bottle Cafe", CategoryDining},
		{"SAFEWAY #1234", CategoryGroceries},
		{"Netflix monthly", CategorySubscriptions},
		{"Spotify Premium subscription", CategorySubscriptions},
		{"Chevron fuel stop", CategoryTransportation},
		{"ACME hardware", CategoryOther},
		{"", CategoryOther},
	}
	for _, tc := range cases {
		if got := Categorize(tc.description); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestCategorizeIsTotal(t *testing.T) {
	valid := map[string]bool{}
	for _, c := range Categories() {
		valid[c] = true
	}
	for _, desc := range []string{"anything", "12345", "???", "gas market cafe"} {
		if !valid[Categorize(desc)] {
			t.Errorf("Categorize(%q) = %q, not in the fixed category set", desc, Categorize(desc))
		}
	}
}

func TestCategorizePriorityOrder(t *testing.T) {
	// "gas market cafe" matches dining, groceries, and transportation
	// keywords; dining is listed first and must win.
	if got := Categorize("gas market cafe"); got != CategoryDining {
		t.Fatalf("expected dining to win by priority, got %q", got)
	}
}
