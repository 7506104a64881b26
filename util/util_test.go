package util

import (
	"reflect"
	"testing"
)

func TestStringInSlice(t *testing.T) {
	list := []string{"PATH", "HOME"}
	if !StringInSlice("PATH", list) {
		t.Error("expected PATH to be found")
	}
	if StringInSlice("SHELL", list) {
		t.Error("did not expect SHELL to be found")
	}
}

func TestContains(t *testing.T) {
	if !Contains([]int{1, 2, 3}, 2) {
		t.Error("expected 2 to be found")
	}
	if Contains([]int{1, 2, 3}, 4) {
		t.Error("did not expect 4 to be found")
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	got := SortedKeys(m)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFilter(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("expected [2 4], got %v", got)
	}
}

func TestMap(t *testing.T) {
	got := Map([]int{1, 2}, func(n int) int { return n * 10 })
	if !reflect.DeepEqual(got, []int{10, 20}) {
		t.Errorf("expected [10 20], got %v", got)
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("expected [a b c], got %v", got)
	}
}

func TestCoalesce(t *testing.T) {
	if Coalesce("", "fallback") != "fallback" {
		t.Error("expected fallback")
	}
	if Coalesce("first", "second") != "first" {
		t.Error("expected first")
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	cases := map[string]string{
		`"quoted"`:   "quoted",
		`'single'`:   "single",
		"  spaced  ": "spaced",
		"plain":      "plain",
	}
	for in, want := range cases {
		if got := SanitizeEnvValue(in); got != want {
			t.Errorf("SanitizeEnvValue(%q) = %q, want %q", in, got, want)
		}
	}
}
