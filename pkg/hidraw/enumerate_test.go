package hidraw

import "testing"

func TestParseModaliasWiimote(t *testing.T) {
	// Real /sys/bus/hid/devices/*/modalias line for a first-generation
	// Wii Remote: kind byte 05, vendor 057e, product 0306.
	vid, pid, ok := parseModalias("hid:b0005v0000057Ep00000306")
	if !ok {
		t.Fatal("parseModalias() ok = false")
	}
	if vid != VendorNintendo {
		t.Fatalf("vendorID = %#x, want %#x", vid, VendorNintendo)
	}
	if pid != ProductWiimote {
		t.Fatalf("productID = %#x, want %#x", pid, ProductWiimote)
	}
}

func TestParseModaliasTrailingFields(t *testing.T) {
	vid, pid, ok := parseModalias("hid:b0005v0000057Ep00000330e00000000")
	if !ok {
		t.Fatal("parseModalias() ok = false")
	}
	if vid != 0x057E {
		t.Fatalf("vendorID = %#x, want 0x057e", vid)
	}
	if pid != ProductWiimotePlus {
		t.Fatalf("productID = %#x, want %#x", pid, ProductWiimotePlus)
	}
}

func TestParseModaliasMalformed(t *testing.T) {
	if _, _, ok := parseModalias("not a modalias line"); ok {
		t.Fatal("parseModalias() of a line with no v/p fields should fail")
	}
	if _, _, ok := parseModalias("hid:b0005vGGGGGGGGp00000306"); ok {
		t.Fatal("parseModalias() with non-hex vendor field should fail")
	}
	if _, _, ok := parseModalias("hid:b0005pv"); ok {
		t.Fatal("parseModalias() with p before v and too short should fail")
	}
}

func TestContainsUint16(t *testing.T) {
	if !containsUint16([]uint16{ProductWiimote, ProductWiimotePlus}, ProductWiimote) {
		t.Fatal("expected ProductWiimote to be a member")
	}
	if containsUint16([]uint16{ProductWiimote}, ProductWiimotePlus) {
		t.Fatal("expected ProductWiimotePlus to not be a member of a Wiimote-only list")
	}
}

func TestNewEnumeratorDefaults(t *testing.T) {
	e := NewEnumerator()
	if e.VendorID != VendorNintendo {
		t.Fatalf("VendorID = %#x, want %#x", e.VendorID, VendorNintendo)
	}
	if len(e.ProductIDs) != 2 {
		t.Fatalf("expected 2 default product IDs, got %d", len(e.ProductIDs))
	}
}
