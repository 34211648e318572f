package main

import "testing"

func TestNewCommands_RegisterExpectedFlags(t *testing.T) {
	diag := newDiagCommand()
	for _, name := range []string{"namespace", "correlate-logs"} {
		if diag.Flags().Lookup(name) == nil {
			t.Errorf("diag command missing --%s flag", name)
		}
	}
	if diag.Use != "diag <kind> <name>" {
		t.Errorf("diag Use = %q", diag.Use)
	}

	g := newGraphCommand()
	for _, name := range []string{"namespace", "upstream", "downstream", "endpoints"} {
		if g.Flags().Lookup(name) == nil {
			t.Errorf("graph command missing --%s flag", name)
		}
	}

	top := newTopCommand()
	if top.Flags().Lookup("horizon") == nil {
		t.Error("top command missing --horizon flag")
	}
}
