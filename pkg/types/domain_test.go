// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"testing"
)

func TestParseDomain(t *testing.T) {
	for _, d := range Domains {
		got, err := ParseDomain(string(d))
		if err != nil {
			t.Errorf("ParseDomain(%q): %v", d, err)
		}
		if got != d {
			t.Errorf("ParseDomain(%q) = %q", d, got)
		}
	}

	_, err := ParseDomain("quantum_computing")
	if err == nil {
		t.Fatal("ParseDomain accepted an unknown domain")
	}
	if !strings.Contains(err.Error(), "quantum_computing") {
		t.Errorf("error %q does not name the rejected value", err)
	}
}

func TestDomainLabel(t *testing.T) {
	if got := DomainEnergyStorage.Label(); got != "Energy Storage & Batteries" {
		t.Errorf("Label() = %q", got)
	}
	// Every declared domain has a label distinct from its raw value.
	for _, d := range Domains {
		if d.Label() == string(d) {
			t.Errorf("domain %q has no human-readable label", d)
		}
	}
	if got := Domain("mystery").Label(); got != "mystery" {
		t.Errorf("unknown domain label = %q, want raw value fallback", got)
	}
}
