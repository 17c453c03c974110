package gpu

import "testing"

func TestDeferred(t *testing.T) {
	var d Deferred
	if d.Flush() {
		t.Fatal("Flush on empty Deferred should report false")
	}

	var ran []string
	d.Schedule(func() { ran = append(ran, "first") })
	d.Schedule(func() { ran = append(ran, "second") })
	if !d.Pending() {
		t.Fatal("task should be pending")
	}
	if !d.Flush() {
		t.Fatal("Flush should run the pending task")
	}
	if len(ran) != 1 || ran[0] != "second" {
		t.Errorf("ran = %v, want [second]", ran)
	}
	if d.Pending() || d.Flush() {
		t.Error("task should run once")
	}

	d.Schedule(func() { ran = append(ran, "cancelled") })
	d.Cancel()
	d.Flush()
	if len(ran) != 1 {
		t.Errorf("cancelled task ran: %v", ran)
	}
}
