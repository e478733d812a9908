package services

import "testing"

func TestLookup(t *testing.T) {
	for _, name := range []string{"auth", "github"} {
		table, ok := Lookup(name)
		if !ok || table.Service() != name {
			t.Errorf("Lookup(%q) = %v, %v", name, table, ok)
		}
		if _, err := table.Lookup("ping"); err != nil {
			t.Errorf("%s has no ping route: %v", name, err)
		}
	}
	if _, ok := Lookup("queue"); ok {
		t.Error("unexpected table for queue")
	}
	if n := Names(); len(n) != 2 || n[0] != "auth" {
		t.Errorf("Names() = %v", n)
	}
}
