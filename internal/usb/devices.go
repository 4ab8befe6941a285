package usb

import (
	"fmt"

	"github.com/google/gousb"
)

const VendorBrother gousb.ID = 0x04F9

// The QL-700 re-enumerates as a mass storage device when its Editor Lite
// switch is on. It can't print in that mode.
const productQL700EditorLite gousb.ID = 0x2049

var supportedProducts = map[gousb.ID]string{
	0x2015: "QL-500",
	0x2016: "QL-550",
	0x2027: "QL-560",
	0x2028: "QL-570",
	0x2029: "QL-580N",
	0x201B: "QL-650TD",
	0x2042: "QL-700",
	0x2020: "QL-1050",
	0x202A: "QL-1060N",
}

// Gets the model name for a Brother product id
func ModelName(product gousb.ID) (string, bool) {
	name, ok := supportedProducts[product]
	return name, ok
}

func isSupported(desc *gousb.DeviceDesc) bool {
	if desc.Vendor != VendorBrother {
		return false
	}
	_, ok := supportedProducts[desc.Product]
	return ok
}

func isEditorLite(desc *gousb.DeviceDesc) bool {
	return desc.Vendor == VendorBrother && desc.Product == productQL700EditorLite
}

// An attached printer
type Info struct {
	Model   string
	Bus     int
	Address int
	Vendor  gousb.ID
	Product gousb.ID
	Serial  string
}

func (i Info) String() string {
	return fmt.Sprintf("%s (bus %d, address %d, %s:%s)", i.Model, i.Bus, i.Address, i.Vendor, i.Product)
}

func infoFromDesc(desc *gousb.DeviceDesc) Info {
	name, ok := ModelName(desc.Product)
	if !ok {
		name = "Unknown"
	}
	return Info{
		Model:   name,
		Bus:     desc.Bus,
		Address: desc.Address,
		Vendor:  desc.Vendor,
		Product: desc.Product,
	}
}
