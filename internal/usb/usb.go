// This package finds Brother QL printers on the USB bus and moves bytes to
// and from them over their bulk endpoints.
package usb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/gousb"
)

var (
	ErrNoPrinter         = errors.New("No supported printer found")
	ErrEndpointsNotFound = errors.New("Couldn't find bulk in and out endpoints")
)

// Finds the bulk IN and OUT endpoint numbers of an interface setting
func findEndpoints(s gousb.InterfaceSetting) (in int, out int, err error) {
	in, out = -1, -1
	for _, ep := range s.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch ep.Direction {
		case gousb.EndpointDirectionIn:
			if in < 0 {
				in = ep.Number
			}
		case gousb.EndpointDirectionOut:
			if out < 0 {
				out = ep.Number
			}
		}
	}
	if in < 0 || out < 0 {
		return 0, 0, fmt.Errorf("%w on interface %d", ErrEndpointsNotFound, s.Number)
	}
	return in, out, nil
}

// Connection is an open session with one printer. It implements the
// printer's transport.
type Connection struct {
	Info Info

	usb    *gousb.Context
	device *gousb.Device
	done   func()
	in     *gousb.InEndpoint
	out    *gousb.OutEndpoint
	logger *slog.Logger
}

func openDevices(usb *gousb.Context, logger *slog.Logger) ([]*gousb.Device, error) {
	devices, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if isEditorLite(desc) {
			logger.Warn("Found a QL-700 in Editor Lite mode, turn Editor Lite off to print",
				"bus", desc.Bus, "address", desc.Address)
			return false
		}
		return isSupported(desc)
	})
	if err != nil && len(devices) == 0 {
		return nil, fmt.Errorf("Couldn't open USB devices:\n%w", err)
	}
	if err != nil {
		// some devices opened, others didn't
		logger.Warn("Couldn't open every USB device", "error", err)
	}
	return devices, nil
}

func serialNumber(d *gousb.Device) string {
	serial, err := d.SerialNumber()
	if err != nil {
		return ""
	}
	return serial
}

// Lists the supported printers attached to the system
func List(logger *slog.Logger) ([]Info, error) {
	usb := gousb.NewContext()
	defer usb.Close()

	devices, err := openDevices(usb, logger)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(devices))
	for _, d := range devices {
		info := infoFromDesc(d.Desc)
		info.Serial = serialNumber(d)
		infos = append(infos, info)
		d.Close()
	}
	return infos, nil
}

// Opens the first supported printer, or the one with the given serial number
// if serial isn't empty
func Open(logger *slog.Logger, serial string) (*Connection, error) {
	usb := gousb.NewContext()

	devices, err := openDevices(usb, logger)
	if err != nil {
		usb.Close()
		return nil, err
	}

	var device *gousb.Device
	for _, d := range devices {
		if device == nil && (serial == "" || serialNumber(d) == serial) {
			device = d
			continue
		}
		d.Close()
	}
	if device == nil {
		usb.Close()
		if serial != "" {
			return nil, fmt.Errorf("%w with serial number %s", ErrNoPrinter, serial)
		}
		return nil, ErrNoPrinter
	}

	c, err := connect(usb, device, logger)
	if err != nil {
		device.Close()
		usb.Close()
		return nil, err
	}
	return c, nil
}

func connect(usb *gousb.Context, device *gousb.Device, logger *slog.Logger) (*Connection, error) {
	info := infoFromDesc(device.Desc)
	info.Serial = serialNumber(device)

	if err := device.SetAutoDetach(true); err != nil {
		return nil, fmt.Errorf("Couldn't detach kernel driver from %s:\n%w", info, err)
	}
	intf, done, err := device.DefaultInterface()
	if err != nil {
		return nil, fmt.Errorf("Couldn't claim interface of %s:\n%w", info, err)
	}

	inNum, outNum, err := findEndpoints(intf.Setting)
	if err != nil {
		done()
		return nil, err
	}
	in, err := intf.InEndpoint(inNum)
	if err != nil {
		done()
		return nil, fmt.Errorf("Couldn't open in endpoint %d:\n%w", inNum, err)
	}
	out, err := intf.OutEndpoint(outNum)
	if err != nil {
		done()
		return nil, fmt.Errorf("Couldn't open out endpoint %d:\n%w", outNum, err)
	}

	logger.Info("Connected to printer", "model", info.Model, "bus", info.Bus, "address", info.Address)
	return &Connection{
		Info:   info,
		usb:    usb,
		device: device,
		done:   done,
		in:     in,
		out:    out,
		logger: logger,
	}, nil
}

func (c *Connection) Write(ctx context.Context, data []byte) error {
	n, err := c.out.WriteContext(ctx, data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(data))
	}
	return nil
}

func (c *Connection) Read(ctx context.Context, buf []byte) (int, error) {
	return c.in.ReadContext(ctx, buf)
}

// Releases the interface and closes the device
func (c *Connection) Close() error {
	c.done()
	err := c.device.Close()
	if cerr := c.usb.Close(); err == nil {
		err = cerr
	}
	c.logger.Debug("Disconnected from printer", "model", c.Info.Model)
	return err
}
