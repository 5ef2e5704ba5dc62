package resource

import (
	"sync"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

type dropCounter struct {
	drops int
}

func (d *dropCounter) Drop() { d.drops++ }

func TestRegistry_Basic(t *testing.T) {
	reg := NewRegistry()

	h := reg.Insert("Stage", "test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := reg.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if _, ok := reg.GetKind(h, "Stage"); !ok {
		t.Fatal("GetKind with correct kind failed")
	}
	if _, ok := reg.GetKind(h, "Gauge"); ok {
		t.Fatal("GetKind with wrong kind should fail")
	}

	val, ok = reg.Remove(h)
	if !ok || val != "test" {
		t.Fatalf("Remove() = %v, %v", val, ok)
	}
	if _, ok := reg.Remove(h); ok {
		t.Fatal("second Remove should fail")
	}
	if reg.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestRegistry_HandleReuse(t *testing.T) {
	reg := NewRegistry()
	h1 := reg.Insert("a", 1)
	reg.Remove(h1)
	h2 := reg.Insert("b", 2)
	if h1 != h2 {
		t.Fatalf("expected freed handle %d to be reused, got %d", h1, h2)
	}
	if k, ok := reg.store.Kind(h2); !ok || k != "b" {
		t.Fatalf("reused handle has kind %q", k)
	}
}

func TestRegistry_Observer(t *testing.T) {
	reg := NewRegistry()
	obs := &testObserver{}
	reg.Subscribe(obs)

	h := reg.Insert("Gauge", "g")
	reg.Remove(h)

	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated || obs.events[0].Kind != "Gauge" {
		t.Errorf("unexpected first event %+v", obs.events[0])
	}
	if obs.events[1].Type != EventDropped || obs.events[1].Handle != h {
		t.Errorf("unexpected second event %+v", obs.events[1])
	}

	reg.Unsubscribe(obs)
	reg.Insert("Gauge", "g2")
	if len(obs.events) != 2 {
		t.Fatal("observer notified after Unsubscribe")
	}
}

func TestRegistry_Counts(t *testing.T) {
	reg := NewRegistry()
	reg.Insert("Stage", 1)
	reg.Insert("Gauge", 2)
	g := reg.Insert("Gauge", 3)

	if n := reg.CountKind("Gauge"); n != 2 {
		t.Fatalf("CountKind(Gauge) = %d", n)
	}
	counts := reg.Counts()
	if counts["Stage"] != 1 || counts["Gauge"] != 2 {
		t.Fatalf("Counts() = %v", counts)
	}
	kinds := reg.Kinds()
	if len(kinds) != 2 || kinds[0] != "Gauge" || kinds[1] != "Stage" {
		t.Fatalf("Kinds() = %v", kinds)
	}

	reg.Remove(g)
	if n := reg.CountKind("Gauge"); n != 1 {
		t.Fatalf("CountKind(Gauge) after remove = %d", n)
	}
}

func TestRegistry_DropperAndClose(t *testing.T) {
	reg := NewRegistry()
	d1, d2 := &dropCounter{}, &dropCounter{}
	h := reg.Insert("x", d1)
	reg.Insert("x", d2)

	reg.Remove(h)
	if d1.drops != 1 {
		t.Fatalf("Remove should drop once, got %d", d1.drops)
	}

	if err := reg.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if d2.drops != 1 {
		t.Fatalf("Close should drop remaining values, got %d", d2.drops)
	}
	if h := reg.Insert("x", 1); h != 0 {
		t.Fatal("Insert after Close should return 0")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := reg.Insert("obj", j)
				reg.Remove(h)
			}
		}()
	}
	wg.Wait()
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d after balanced insert/remove", reg.Len())
	}
}
