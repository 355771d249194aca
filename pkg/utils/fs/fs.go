package fs

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// CopyFile copies the file at src to dst, overwriting dst if it exists.
// File mode of src is preserved.
func CopyFile(src string, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "could not stat %q", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "could not open %q", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return errors.Wrapf(err, "could not create %q", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "could not copy %q to %q", src, dst)
	}

	return out.Sync()
}
