package printer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const dialogPattern = "hoadon_*.html"

// DialogMaxAge is how long a handed-off receipt page is kept on disk.
const DialogMaxAge = 24 * time.Hour

// DefaultPrintCommand opens a file with the platform's default handler. For
// the receipt page that is the browser, which raises its print dialog.
func DefaultPrintCommand() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	case "darwin":
		return []string{"open"}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open"}
	default:
		return nil
	}
}

// Dialog writes the HTML receipt to a file and passes it to the print command.
// The file outlives a successful hand-off because the opened program reads it
// later; Prune removes old ones.
type Dialog struct {
	Command  []string
	Dir      string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
	now      func() time.Time
}

func NewDialog(command []string, dir string) *Dialog {
	return &Dialog{Command: command, Dir: dir, lookPath: exec.LookPath, run: runCommand, now: time.Now}
}

func (d *Dialog) Name() string { return TierDialog }
func (d *Dialog) Secure() bool { return false }

func (d *Dialog) Available() bool {
	if len(d.Command) == 0 {
		return false
	}
	_, err := d.lookPath(d.Command[0])
	return err == nil
}

func (d *Dialog) Attempt(ctx context.Context, job *Job) error {
	f, err := os.CreateTemp(d.Dir, dialogPattern)
	if err != nil {
		return err
	}
	if _, err := f.Write(job.Doc.HTML); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}

	args := append(append([]string{}, d.Command[1:]...), f.Name())
	if err := d.run(ctx, d.Command[0], args...); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}

// Prune deletes receipt pages older than maxAge and returns how many went.
func (d *Dialog) Prune(maxAge time.Duration) (int, error) {
	dir := d.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	matches, err := filepath.Glob(filepath.Join(dir, dialogPattern))
	if err != nil {
		return 0, err
	}

	cutoff := d.now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
