package printer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

var ErrNoPort = errors.New("no serial port")

// LineMode is 9600-8-N-1.
var LineMode = serial.Mode{
	BaudRate: 9600,
	DataBits: 8,
	Parity:   serial.NoParity,
	StopBits: serial.OneStopBit,
}

type SerialOpener interface {
	Ports() ([]string, error)
	Open(name string, mode *serial.Mode) (io.WriteCloser, error)
}

type Serial struct {
	// Port is used when set; otherwise the first enumerated port.
	Port   string
	opener SerialOpener
}

func NewSerial(port string, opener SerialOpener) *Serial {
	if opener == nil {
		opener = systemPorts{}
	}
	return &Serial{Port: port, opener: opener}
}

func (s *Serial) Name() string { return TierSerial }
func (s *Serial) Secure() bool { return true }

func (s *Serial) Available() bool {
	if s.Port != "" {
		return true
	}
	ports, err := s.opener.Ports()
	return err == nil && len(ports) > 0
}

func (s *Serial) Attempt(ctx context.Context, job *Job) error {
	name := s.Port
	if name == "" {
		ports, err := s.opener.Ports()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			return ErrNoPort
		}
		name = ports[0]
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := LineMode
	port, err := s.opener.Open(name, &mode)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}

	data := job.Doc.Commands
	n, err := port.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err == nil {
		if d, ok := port.(interface{ Drain() error }); ok {
			err = d.Drain()
		}
	}
	if cerr := port.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

type systemPorts struct{}

func (systemPorts) Ports() ([]string, error) {
	return serial.GetPortsList()
}

func (systemPorts) Open(name string, mode *serial.Mode) (io.WriteCloser, error) {
	return serial.Open(name, mode)
}
