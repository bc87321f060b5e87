package printer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"
)

var ErrNoDevice = errors.New("no matching usb device")

// Common 58/80mm POS printer (Winbond based).
const (
	DefaultVendorID  uint16 = 0x0416
	DefaultProductID uint16 = 0x5011
)

// DefaultEndpoints are the bulk OUT endpoints tried in order.
var DefaultEndpoints = []int{0x01, 0x02, 0x03}

type USBDevice interface {
	Write(endpoint int, data []byte) (int, error)
	Close() error
}

type USBOpener interface {
	Present() bool
	Open(vendorID, productID uint16) (USBDevice, error)
}

type USB struct {
	VendorID  uint16
	ProductID uint16
	Endpoints []int
	opener    USBOpener
}

func NewUSB(vendorID, productID uint16, opener USBOpener) *USB {
	if opener == nil {
		opener = libusb{}
	}
	return &USB{VendorID: vendorID, ProductID: productID, Endpoints: DefaultEndpoints, opener: opener}
}

func (u *USB) Name() string { return TierUSB }
func (u *USB) Secure() bool { return true }

func (u *USB) Available() bool {
	return u.opener.Present()
}

// Attempt claims the device, offers the stream to each endpoint until one
// takes all of it, and always releases the device.
func (u *USB) Attempt(ctx context.Context, job *Job) error {
	dev, err := u.opener.Open(u.VendorID, u.ProductID)
	if err != nil {
		return fmt.Errorf("open %04x:%04x: %w", u.VendorID, u.ProductID, err)
	}
	defer dev.Close()

	data := job.Doc.Commands
	var errs []error
	for _, ep := range u.Endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := dev.Write(ep, data)
		if err == nil && n == len(data) {
			return nil
		}
		if err == nil {
			err = fmt.Errorf("short write %d/%d", n, len(data))
		}
		errs = append(errs, fmt.Errorf("endpoint 0x%02x: %w", ep, err))
	}
	return fmt.Errorf("no endpoint accepted the write: %w", errors.Join(errs...))
}

// libusb is the gousb backed opener.
type libusb struct{}

func (libusb) Present() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	ctx := gousb.NewContext()
	return ctx.Close() == nil
}

func (libusb) Open(vendorID, productID uint16) (USBDevice, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		ctx.Close()
		return nil, err
	}
	if dev == nil {
		ctx.Close()
		return nil, ErrNoDevice
	}
	_ = dev.SetAutoDetach(true)

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("claim interface: %w", err)
	}
	return &libusbDevice{ctx: ctx, dev: dev, intf: intf, done: done}, nil
}

type libusbDevice struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface
	done func()
}

func (d *libusbDevice) Write(endpoint int, data []byte) (int, error) {
	ep, err := d.intf.OutEndpoint(endpoint)
	if err != nil {
		return 0, err
	}
	return ep.Write(data)
}

func (d *libusbDevice) Close() error {
	d.done()
	err := d.dev.Close()
	if cerr := d.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}
