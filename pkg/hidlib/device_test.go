package hidlib

import "testing"

func TestEnumeratorDefaults(t *testing.T) {
	e := NewEnumerator()
	if e.vendorID() != VendorNintendo {
		t.Fatalf("vendorID() = %#x, want %#x", e.vendorID(), VendorNintendo)
	}
	ids := e.productIDs()
	if len(ids) != 2 || ids[0] != ProductWiimote || ids[1] != ProductWiimotePlus {
		t.Fatalf("productIDs() = %v, want [%#x %#x]", ids, ProductWiimote, ProductWiimotePlus)
	}
}

func TestEnumeratorExplicitFilter(t *testing.T) {
	e := &Enumerator{VendorID: 0x1234, ProductIDs: []uint16{0x0001}}
	if e.vendorID() != 0x1234 {
		t.Fatalf("vendorID() = %#x, want 0x1234", e.vendorID())
	}
	if ids := e.productIDs(); len(ids) != 1 || ids[0] != 0x0001 {
		t.Fatalf("productIDs() = %v, want [0x0001]", ids)
	}
}
