package job

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsCompletedRequiresEveryProcess(t *testing.T) {
	spec := &Spec{Processes: []*Process{{Pid: 1}, {Pid: 2}}}
	j := NewJob(spec)

	if j.IsCompleted() {
		t.Fatalf("a job with no processes marked should not be completed")
	}

	j.markProcessStatus(1, false, 0)
	if j.IsCompleted() {
		t.Fatalf("a job is not completed until every process is")
	}

	j.markProcessStatus(2, false, 0)
	if !j.IsCompleted() {
		t.Fatalf("a job with every process completed should report IsCompleted")
	}
}

func TestIsStoppedRequiresAtLeastOneStoppedAndNoneRunning(t *testing.T) {
	spec := &Spec{Processes: []*Process{{Pid: 1}, {Pid: 2}}}
	j := NewJob(spec)

	j.markProcessStatus(1, true, 0)
	if j.IsStopped() {
		t.Fatalf("a job is not stopped while another process is still running")
	}

	j.markProcessStatus(2, false, 0)
	if !j.IsStopped() {
		t.Fatalf("a job where every process is either stopped or completed, with at least one stopped, should report IsStopped")
	}
}

func TestStatusAggregatesByBitwiseOr(t *testing.T) {
	spec := &Spec{Processes: []*Process{{Pid: 1}, {Pid: 2}}}
	j := NewJob(spec)

	j.markProcessStatus(1, false, 0x01)
	j.markProcessStatus(2, false, 0x10)

	if got := j.Status(); got != 0x11 {
		t.Fatalf("Status() = %#x, want %#x", got, 0x11)
	}
}

func TestMarkProcessStatusUpdatesOnlyTheMatchingProcess(t *testing.T) {
	spec := &Spec{Processes: []*Process{{Argv: []string{"a"}, Pid: 1}, {Argv: []string{"b"}, Pid: 2}}}
	j := NewJob(spec)

	j.markProcessStatus(2, true, 0x7f)

	want := []*Process{
		{Argv: []string{"a"}, Pid: 1},
		{Argv: []string{"b"}, Pid: 2, Stopped: true, Status: 0x7f},
	}
	if diff := cmp.Diff(want, spec.Processes); diff != "" {
		t.Fatalf("Processes mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkProcessStatusIgnoresUnknownPid(t *testing.T) {
	spec := &Spec{Processes: []*Process{{Pid: 1}}}
	j := NewJob(spec)

	if j.markProcessStatus(999, false, 0) {
		t.Fatalf("marking an unknown pid should report false")
	}
}
