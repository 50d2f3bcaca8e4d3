package notifier

import (
	"strings"
	"testing"
)

type fakeCommander struct {
	analyses int
	status   string
}

func (f *fakeCommander) RunAnalysisNow()      { f.analyses++ }
func (f *fakeCommander) StatusReport() string { return f.status }

func TestRouteCommand(t *testing.T) {
	cmd := &fakeCommander{status: "2 open signals"}

	if reply := routeCommand("/structure", cmd); reply != "" {
		t.Errorf("/structure must reply through the report path, got %q", reply)
	}
	if cmd.analyses != 1 {
		t.Errorf("expected one analysis trigger, got %d", cmd.analyses)
	}

	if reply := routeCommand("/status", cmd); reply != "2 open signals" {
		t.Errorf("/status reply wrong: %q", reply)
	}

	reply := routeCommand("/nonsense", cmd)
	if !strings.Contains(reply, "/structure") || !strings.Contains(reply, "/status") {
		t.Errorf("unknown command must list available commands, got %q", reply)
	}
	if cmd.analyses != 1 {
		t.Errorf("unknown command must not trigger analysis, got %d", cmd.analyses)
	}
}

func TestFromConfiguredChat(t *testing.T) {
	tn := NewTelegramNotifier("tok", "4242", "")
	if !tn.fromConfiguredChat(4242) {
		t.Error("configured chat rejected")
	}
	if tn.fromConfiguredChat(9999) {
		t.Error("foreign chat accepted")
	}
}
