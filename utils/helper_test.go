package utils

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		in     string
		region string
		want   string
	}{
		{"+91 81234 56789", "IN", "+918123456789"},
		{"081234 56789", "IN", "+918123456789"},
		{"8123456789", "IN", "+918123456789"},
		{"+1 650-253-0000", "IN", "+16502530000"},
		{"(650) 253-0000", "US", "+16502530000"},
	}
	for _, tc := range cases {
		got, err := NormalizePhoneNumber(tc.in, tc.region)
		if err != nil {
			t.Fatalf("NormalizePhoneNumber(%q, %s) error: %v", tc.in, tc.region, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizePhoneNumber(%q, %s) expected %s, got %s", tc.in, tc.region, tc.want, got)
		}
	}
}

func TestNormalizePhoneNumber_Rejects(t *testing.T) {
	for _, in := range []string{"", "12", "not a phone", "+91 12345"} {
		if got, err := NormalizePhoneNumber(in, "IN"); err == nil {
			t.Fatalf("NormalizePhoneNumber(%q) expected error, got %s", in, got)
		}
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 3
	if DereferencePtr(&v, 10) != 3 || DereferencePtr[int](nil, 10) != 10 {
		t.Fatalf("DereferencePtr returned the wrong value")
	}
}
