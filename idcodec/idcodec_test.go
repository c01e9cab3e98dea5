package idcodec

import "testing"

func TestComposeRoundTrip(t *testing.T) {
	cases := []struct {
		typ  Type
		slot int
	}{
		{TypeTask, 0},
		{TypeQueue, 1},
		{TypeBinSem, 127},
		{TypeFileSys, 65535},
		{TypeConsole, 3},
	}

	for _, c := range cases {
		serial, _ := NextSerial(0, c.slot)
		h := Compose(c.typ, serial)

		if got := TypeOf(h); got != c.typ {
			t.Errorf("TypeOf(Compose(%v, %d)) = %v, want %v", c.typ, c.slot, got, c.typ)
		}
		idx, ok := SlotOf(h, c.typ, 65536)
		if !ok {
			t.Fatalf("SlotOf(Compose(%v, %d)) failed", c.typ, c.slot)
		}
		if idx != c.slot {
			t.Errorf("SlotOf(Compose(%v, %d)) = %d, want %d", c.typ, c.slot, idx, c.slot)
		}
	}
}

func TestSlotOfWrongType(t *testing.T) {
	serial, _ := NextSerial(0, 5)
	h := Compose(TypeBinSem, serial)
	if _, ok := SlotOf(h, TypeCountSem, 64); ok {
		t.Errorf("SlotOf accepted a handle of the wrong type")
	}
}

func TestSlotOfOutOfRange(t *testing.T) {
	serial, _ := NextSerial(0, 40)
	h := Compose(TypeQueue, serial)
	if _, ok := SlotOf(h, TypeQueue, 32); ok {
		t.Errorf("SlotOf accepted an out-of-range slot")
	}
}

func TestUndefinedNeverEqualsLive(t *testing.T) {
	serial, _ := NextSerial(0, 0)
	h := Compose(TypeTask, serial)
	if Equal(h, Undefined) {
		t.Errorf("a live handle compared equal to Undefined")
	}
	if Defined(Undefined) {
		t.Errorf("Undefined reported as Defined")
	}
	if !Defined(h) {
		t.Errorf("live handle reported as not Defined")
	}
}

func TestComposeAvoidsReservedAliasing(t *testing.T) {
	// Craft a serial whose low bits happen to look like all-ones. The
	// codec must never return exactly Reserved for any composition.
	h := Compose(Type(typeMask), serialMask)
	if h == Reserved {
		t.Errorf("Compose returned the Reserved sentinel for a live handle")
	}
}

func TestNextSerialSkipsGenerationZero(t *testing.T) {
	// Simulate wrapping all the way around the generation counter.
	maxGen := uint32(1<<(32-slotBits)) - 1
	_, gen := NextSerial(maxGen, 3)
	if gen == 0 {
		t.Errorf("NextSerial produced generation 0 after wraparound")
	}
}
