// Package printer delivers rendered receipts through an ordered list of
// transports, falling through to the next one whenever a transport is
// unavailable or fails.
package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/Mohammad-Mahdi82/NexusCue/receipt"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TierUSB    = "usb"
	TierDialog = "dialog"
	TierSerial = "serial"
	TierFile   = "file"
)

// Transport is one delivery tier.
type Transport interface {
	Name() string
	// Secure transports touch hardware and only run in a secure context.
	Secure() bool
	Available() bool
	Attempt(ctx context.Context, job *Job) error
}

// Job is one print request moving through the chain.
type Job struct {
	ID  string
	Doc *receipt.Document
	// Artifact is the file written by the file tier, if it ran.
	Artifact string
}

// Notifier shows short localized messages to the operator.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}

// Outcome records what the chain did for one job.
type Outcome struct {
	JobID     string
	Tier      string
	Artifact  string
	Attempted []string
	Skipped   []string
	Failures  map[string]error
}

const (
	noticeInsecure = "Kết nối không bảo mật: bỏ qua máy in USB và cổng COM."
	noticeFailed   = "Không thể in hóa đơn. Vui lòng thử lại."
)

var successNotice = map[string]string{
	TierUSB:    "In thành công!",
	TierDialog: "Đã mở hộp thoại in.",
	TierSerial: "In thành công!",
	TierFile:   "Đã tải file in. Vui lòng mở bằng phần mềm máy in nhiệt.",
}

type Chain struct {
	transports []Transport
	secure     bool
	notify     Notifier
	log        *zap.Logger
	advise     sync.Once
}

func NewChain(secure bool, notify Notifier, log *zap.Logger, transports ...Transport) *Chain {
	if notify == nil {
		notify = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{transports: transports, secure: secure, notify: notify, log: log}
}

// Print walks the tiers in order and stops at the first success. Failures stay
// inside the chain; only when every tier is exhausted does the operator see an
// error and Print return models.ErrNoPrinter.
func (c *Chain) Print(ctx context.Context, doc *receipt.Document) (*Outcome, error) {
	job := &Job{ID: uuid.NewString(), Doc: doc}
	out := &Outcome{JobID: job.ID, Failures: map[string]error{}}
	log := c.log.With(zap.String("job_id", job.ID))
	if doc.Invoice != nil {
		log = log.With(zap.Uint("invoice_id", doc.Invoice.ID))
	}

	for _, t := range c.transports {
		name := t.Name()
		if t.Secure() && !c.secure {
			c.advise.Do(func() { c.notify.Info(noticeInsecure) })
			out.Skipped = append(out.Skipped, name)
			log.Debug("tier skipped: insecure context", zap.String("tier", name))
			continue
		}
		if !t.Available() {
			out.Skipped = append(out.Skipped, name)
			log.Debug("tier unavailable", zap.String("tier", name))
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		out.Attempted = append(out.Attempted, name)
		if err := attempt(ctx, t, job); err != nil {
			out.Failures[name] = err
			log.Warn("tier failed", zap.String("tier", name), zap.Error(err))
			continue
		}

		out.Tier = name
		out.Artifact = job.Artifact
		log.Info("receipt printed", zap.String("tier", name), zap.String("artifact", job.Artifact))
		if msg, ok := successNotice[name]; ok {
			c.notify.Info(msg)
		}
		return out, nil
	}

	c.notify.Error(noticeFailed)
	errs := make([]error, 0, len(out.Failures))
	for _, name := range out.Attempted {
		errs = append(errs, fmt.Errorf("%s: %w", name, out.Failures[name]))
	}
	return out, errors.Join(append([]error{models.ErrNoPrinter}, errs...)...)
}

// attempt turns a panicking driver into an ordinary tier failure.
func attempt(ctx context.Context, t Transport, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.Attempt(ctx, job)
}

// SecureContext reports whether the desk talks to its backend over a trusted
// origin: https, or a loopback host.
func SecureContext(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	if u.Scheme == "https" {
		return true
	}
	host := u.Hostname()
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
