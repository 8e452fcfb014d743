package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		// Initial track, in order
		{"request sent", ProcessPendingRequest, ProcessRequestedToInspectors, true},
		{"schedule received", ProcessRequestedToInspectors, ProcessScheduleReceived, true},
		{"doc sent to applicant", ProcessScheduleReceived, ProcessApplicantDocPending, true},
		{"signed doc received", ProcessApplicantDocPending, ProcessApplicantDocReceived, true},
		{"inspection performed", ProcessApplicantDocReceived, ProcessCompletedPendingResult, true},
		{"result approved", ProcessCompletedPendingResult, ProcessResultApproved, true},
		{"result rejected", ProcessCompletedPendingResult, ProcessResultRejected, true},
		{"rejection reopens", ProcessResultRejected, ProcessReinspection, true},
		{"reinspection re-requests", ProcessReinspection, ProcessRequestedToInspectors, true},
		{"reinspection re-requests final", ProcessReinspection, ProcessFinalRequestedToInspector, true},

		// Final track, in order
		{"final request sent", ProcessPendingFinalRequest, ProcessFinalRequestedToInspector, true},
		{"final invoice received", ProcessFinalRequestedToInspector, ProcessFinalInvoiceReceived, true},
		{"invoice sent to client", ProcessFinalInvoiceReceived, ProcessFinalInvoiceSentToClient, true},
		{"payment confirmed", ProcessFinalInvoiceSentToClient, ProcessFinalPaymentConfirmed, true},
		{"payment notified", ProcessFinalPaymentConfirmed, ProcessFinalPaymentNotified, true},
		{"final result approved", ProcessFinalPaymentNotified, ProcessResultApproved, true},
		{"final result rejected", ProcessFinalPaymentNotified, ProcessResultRejected, true},

		// Skipping states is rejected
		{"cannot skip to schedule", ProcessPendingRequest, ProcessScheduleReceived, false},
		{"cannot skip to result", ProcessRequestedToInspectors, ProcessResultApproved, false},
		{"cannot skip signature step", ProcessScheduleReceived, ProcessApplicantDocReceived, false},
		{"cannot jump final track ahead", ProcessPendingFinalRequest, ProcessFinalInvoiceReceived, false},

		// No moving backwards
		{"no regression to pending", ProcessScheduleReceived, ProcessPendingRequest, false},
		{"no regression from result", ProcessResultRejected, ProcessCompletedPendingResult, false},

		// Tracks do not cross
		{"initial cannot enter final track", ProcessPendingRequest, ProcessFinalRequestedToInspector, false},
		{"final cannot enter initial track", ProcessPendingFinalRequest, ProcessRequestedToInspectors, false},

		// Terminal and unknown states
		{"approved is terminal", ProcessResultApproved, ProcessReinspection, false},
		{"approved cannot reopen", ProcessResultApproved, ProcessRequestedToInspectors, false},
		{"unknown from state", "made_up_state", ProcessRequestedToInspectors, false},
		{"unknown to state", ProcessPendingRequest, "made_up_state", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%q, %q) = %v, expected %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

// A rejected inspection of either type must be able to reach its own
// verdict step again after reopening. A reopened pass with no path back to
// a result would strand the inspection, and with it the work, forever.
func TestReopenedInspectionReachesResultAgain(t *testing.T) {
	walks := []struct {
		name string
		path []string
	}{
		{"initial", []string{
			ProcessResultRejected, ProcessReinspection,
			ProcessRequestedToInspectors, ProcessScheduleReceived,
			ProcessApplicantDocPending, ProcessApplicantDocReceived,
			ProcessCompletedPendingResult, ProcessResultApproved,
		}},
		{"final", []string{
			ProcessResultRejected, ProcessReinspection,
			ProcessFinalRequestedToInspector, ProcessFinalInvoiceReceived,
			ProcessFinalInvoiceSentToClient, ProcessFinalPaymentConfirmed,
			ProcessFinalPaymentNotified, ProcessResultApproved,
		}},
	}
	for _, walk := range walks {
		t.Run(walk.name, func(t *testing.T) {
			for i := 0; i < len(walk.path)-1; i++ {
				if !CanTransition(walk.path[i], walk.path[i+1]) {
					t.Fatalf("reopened %s track blocked at %q -> %q",
						walk.name, walk.path[i], walk.path[i+1])
				}
			}
		})
	}
}

// Every non-terminal state must have at least one outgoing edge; a state
// with none would trap any inspection that reaches it.
func TestNoDeadEndStates(t *testing.T) {
	for _, s := range ProcessStatuses {
		if IsTerminalProcessStatus(s) {
			continue
		}
		if len(NextProcessStatuses[s]) == 0 {
			t.Errorf("state %q has no outgoing transitions and is not terminal", s)
		}
	}
}

func TestTransitionTableIsClosed(t *testing.T) {
	known := make(map[string]bool, len(ProcessStatuses))
	for _, s := range ProcessStatuses {
		known[s] = true
	}
	for from, nexts := range NextProcessStatuses {
		if !known[from] {
			t.Errorf("transition table references unknown source state %q", from)
		}
		for _, to := range nexts {
			if !known[to] {
				t.Errorf("transition %q -> %q targets unknown state", from, to)
			}
		}
	}
	for _, s := range ProcessStatuses {
		if _, ok := NextProcessStatuses[s]; !ok {
			t.Errorf("state %q missing from transition table", s)
		}
	}
}

func TestInitialProcessStatus(t *testing.T) {
	if got := InitialProcessStatus(InspectionTypeInitial); got != ProcessPendingRequest {
		t.Errorf("initial type entry = %q", got)
	}
	if got := InitialProcessStatus(InspectionTypeFinal); got != ProcessPendingFinalRequest {
		t.Errorf("final type entry = %q", got)
	}
	if got := InitialProcessStatus("annual"); got != "" {
		t.Errorf("unknown type should yield empty entry, got %q", got)
	}
}

func TestIsTerminalProcessStatus(t *testing.T) {
	if !IsTerminalProcessStatus(ProcessResultApproved) {
		t.Error("result_approved must be terminal")
	}
	if IsTerminalProcessStatus(ProcessResultRejected) {
		t.Error("result_rejected can reopen, must not be terminal")
	}
	if IsTerminalProcessStatus(ProcessPendingRequest) {
		t.Error("pending_request is not terminal")
	}
	if IsTerminalProcessStatus("made_up_state") {
		t.Error("unknown states are not terminal")
	}
}
