package cache

import (
	"strings"
	"testing"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("races", "http://api/races/2024")
	b := Key("races", "http://api/races/2024")
	if a != b {
		t.Fatalf("same identity produced different keys: %s vs %s", a, b)
	}
}

func TestKey_DistinctIdentities(t *testing.T) {
	a := Key("races", "http://api/races/2024")
	b := Key("races", "http://api/races/2023")
	if a == b {
		t.Fatalf("different identities collided: %s", a)
	}
}

func TestKey_CarriesTypePrefix(t *testing.T) {
	k := Key("drivers", "http://api/drivers/HAM")
	if !strings.HasPrefix(k, TypePrefix("drivers")) {
		t.Fatalf("key %s missing prefix %s", k, TypePrefix("drivers"))
	}
	if !strings.HasPrefix(k, Namespace) {
		t.Fatalf("key %s outside namespace", k)
	}
}

func TestKey_EmptyTypeDefaults(t *testing.T) {
	k := Key("", "http://api/whatever")
	if !strings.HasPrefix(k, TypePrefix("resource")) {
		t.Fatalf("empty type should fall back to resource, got %s", k)
	}
}
