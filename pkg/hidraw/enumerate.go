package hidraw

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gowiimote/wiiuse"
)

const (
	hidSysfsDir = "/sys/bus/hid/devices"

	// VendorNintendo is the Nintendo Co., Ltd USB/Bluetooth vendor ID.
	VendorNintendo = 0x057e
)

// ProductWiimote and ProductWiimotePlus are the two HID product IDs a
// first or second generation Wii Remote reports.
const (
	ProductWiimote     = 0x0306
	ProductWiimotePlus = 0x0330
)

// Enumerator discovers Wii Remote hidraw nodes by walking
// /sys/bus/hid/devices the way Daedaluz-gousb/sysfs.go walks
// /sys/bus/usb/devices: read a small sysfs attribute per candidate
// directory instead of opening every device to ask it who it is.
type Enumerator struct {
	// VendorID and ProductIDs filter candidates; ProductIDs defaults to
	// {ProductWiimote, ProductWiimotePlus} when empty.
	VendorID   uint16
	ProductIDs []uint16
}

// NewEnumerator returns an Enumerator preconfigured for Wii Remotes.
func NewEnumerator() *Enumerator {
	return &Enumerator{
		VendorID:   VendorNintendo,
		ProductIDs: []uint16{ProductWiimote, ProductWiimotePlus},
	}
}

// Enumerate implements wiimote.HidEnumerator.
func (e *Enumerator) Enumerate() ([]wiimote.HidDevice, error) {
	entries, err := os.ReadDir(hidSysfsDir)
	if err != nil {
		return nil, fmt.Errorf("hidraw: read %s: %w", hidSysfsDir, err)
	}

	wantProducts := e.ProductIDs
	if len(wantProducts) == 0 {
		wantProducts = []uint16{ProductWiimote, ProductWiimotePlus}
	}
	vendor := e.VendorID
	if vendor == 0 {
		vendor = VendorNintendo
	}

	var out []wiimote.HidDevice
	for _, ent := range entries {
		name := ent.Name()
		vid, pid, ok := readHidIDs(name)
		if !ok || vid != vendor {
			continue
		}
		if !containsUint16(wantProducts, pid) {
			continue
		}
		node, ok := findHidrawNode(name)
		if !ok {
			continue
		}
		dev, err := Open(node)
		if err != nil {
			continue
		}
		out = append(out, dev)
	}
	return out, nil
}

// readHidIDs reads the vendor/product ID pair out of a HID sysfs entry's
// "modalias" attribute, which always has the form
// "hid:bKIND vVVVVVVVV pPPPPPPPP ...".
func readHidIDs(devName string) (vendorID, productID uint16, ok bool) {
	path := filepath.Join(hidSysfsDir, devName, "modalias")
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0, false
	}
	return parseModalias(scanner.Text())
}

// parseModalias extracts the vendor/product ID pair from one line of a
// HID sysfs "modalias" attribute, split out of readHidIDs so the
// string-index parsing can be exercised without touching sysfs.
func parseModalias(line string) (vendorID, productID uint16, ok bool) {
	vIdx := strings.Index(line, "v")
	pIdx := strings.Index(line, "p")
	if vIdx < 0 || pIdx < 0 || pIdx < vIdx+9 || pIdx+9 > len(line) {
		return 0, 0, false
	}
	vHex := line[vIdx+1 : vIdx+9]
	pHex := line[pIdx+1 : pIdx+9]

	v, err := strconv.ParseUint(vHex, 16, 32)
	if err != nil {
		return 0, 0, false
	}
	p, err := strconv.ParseUint(pHex, 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return uint16(v), uint16(p), true
}

// findHidrawNode locates the /dev/hidrawN node backing a HID sysfs
// device by looking for its child "hidraw" directory.
func findHidrawNode(devName string) (string, bool) {
	dir := filepath.Join(hidSysfsDir, devName, "hidraw")
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return "", false
	}
	return filepath.Join("/dev", entries[0].Name()), true
}

func containsUint16(xs []uint16, v uint16) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
