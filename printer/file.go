package printer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// File saves the command stream as hoadon_<unix-ms>.txt (text/plain). It has
// no hardware dependency and is meant to close the chain.
type File struct {
	Dir string
	now func() time.Time
}

func NewFile(dir string) *File {
	return &File{Dir: dir, now: time.Now}
}

func (f *File) Name() string    { return TierFile }
func (f *File) Secure() bool    { return false }
func (f *File) Available() bool { return true }

func (f *File) Attempt(ctx context.Context, job *Job) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	stamp := f.now().UnixMilli()
	for n := 0; n < maxSameStamp; n++ {
		name := fmt.Sprintf("hoadon_%d.txt", stamp)
		if n > 0 {
			name = fmt.Sprintf("hoadon_%d_%d.txt", stamp, n)
		}
		path := filepath.Join(f.Dir, name)
		err := writeNew(path, job.Doc.Commands)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return err
		}
		job.Artifact = path
		return nil
	}
	return fmt.Errorf("too many receipts named hoadon_%d: %w", stamp, fs.ErrExist)
}

// two receipts saved in the same millisecond get _1, _2, ... suffixes
const maxSameStamp = 100

// writeNew fails with fs.ErrExist instead of replacing an existing file.
func writeNew(path string, data []byte) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}
