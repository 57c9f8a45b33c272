package orderstatus

import "testing"

func TestStatusNext(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   Status
		wantOK bool
	}{
		{name: "pendingToPreparing", status: Statuses.Pending, want: Statuses.Preparing, wantOK: true},
		{name: "preparingToReady", status: Statuses.Preparing, want: Statuses.Ready, wantOK: true},
		{name: "readyToServed", status: Statuses.Ready, want: Statuses.Served, wantOK: true},
		{name: "servedIsTerminal", status: Statuses.Served, wantOK: false},
		{name: "unknownStatus", status: Status{Name: "cooking"}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.status.Next()
			if ok != tt.wantOK {
				t.Fatalf("Next() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusCanAdvanceTo(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		to     Status
		expect bool
	}{
		{name: "singleStepForward", from: Statuses.Pending, to: Statuses.Preparing, expect: true},
		{name: "skipPreparing", from: Statuses.Pending, to: Statuses.Ready, expect: false},
		{name: "backwards", from: Statuses.Ready, to: Statuses.Pending, expect: false},
		{name: "sameStatus", from: Statuses.Ready, to: Statuses.Ready, expect: false},
		{name: "fromServed", from: Statuses.Served, to: Statuses.Pending, expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanAdvanceTo(tt.to); got != tt.expect {
				t.Errorf("CanAdvanceTo() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestByName(t *testing.T) {
	if s := ByName("ready"); s == nil || *s != Statuses.Ready {
		t.Errorf("ByName(ready) = %v, want %v", s, Statuses.Ready)
	}
	if s := ByName(FilterAll); s != nil {
		t.Errorf("ByName(all) = %v, want nil", s)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := Statuses.Preparing.Label(); got != "Preparing" {
		t.Errorf("Label() = %q, want %q", got, "Preparing")
	}
}
