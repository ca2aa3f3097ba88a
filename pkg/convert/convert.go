package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quidome/img-dater/pkg/normalize"
	"github.com/quidome/img-dater/pkg/plan"
)

var (
	// ErrDestinationExists is returned when converting onto an existing file
	// without Overwrite.
	ErrDestinationExists = errors.New("destination file already exists")
)

// Result contains the outcome of one conversion.
type Result struct {
	Operation    plan.Operation
	Success      bool
	BytesWritten int64
	Error        error
}

// Options configures Execute.
type Options struct {
	// MaxDimension caps the larger output dimension in pixels.
	MaxDimension int

	// Quality is the JPEG quality, 1-100.
	Quality int

	// Overwrite allows replacing existing destination files.
	// Default should be false for safety.
	Overwrite bool
}

// Execute converts each planned operation: read the source below srcRoot,
// normalize it into a dated JPEG, write it to the destination, and set the
// destination's timestamps to the inferred date.
//
// Per-file failures are recorded in the returned results; one bad file never
// aborts the batch.
func Execute(srcRoot string, operations []plan.Operation, opts Options) []Result {
	results := make([]Result, 0, len(operations))

	for _, op := range operations {
		result := Result{Operation: op}

		n, err := convertFile(srcRoot, op, opts)
		if err != nil {
			result.Error = err
			results = append(results, result)
			continue
		}

		result.Success = true
		result.BytesWritten = n
		results = append(results, result)
	}

	return results
}

// Stats reports how many results succeeded and failed.
func Stats(results []Result) (converted, failed int) {
	for _, r := range results {
		if r.Success {
			converted++
		} else {
			failed++
		}
	}
	return converted, failed
}

func convertFile(srcRoot string, op plan.Operation, opts Options) (int64, error) {
	src, err := os.ReadFile(filepath.Join(srcRoot, filepath.FromSlash(op.SourcePath)))
	if err != nil {
		return 0, fmt.Errorf("read source: %w", err)
	}

	out, err := normalize.Normalize(src, op.TakenAt, normalize.Options{
		MaxDimension: opts.MaxDimension,
		Quality:      opts.Quality,
	})
	if err != nil {
		return 0, fmt.Errorf("normalize: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(op.DestinationPath), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	if err := writeFile(op.DestinationPath, out, opts.Overwrite); err != nil {
		return 0, err
	}

	// Timestamp failures are swallowed: the converted file itself counts.
	setFileTimes(op.DestinationPath, op.TakenAt)

	return int64(len(out)), nil
}

// writeFile writes data to dst. If allowOverwrite is false, an existing
// destination is an error and partially written files are cleaned up.
func writeFile(dst string, data []byte, allowOverwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE
	if !allowOverwrite {
		flags |= os.O_EXCL
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(dst, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrDestinationExists
		}
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		if !allowOverwrite {
			_ = os.Remove(dst)
		}
		return fmt.Errorf("write content: %w", err)
	}

	// Ensure data is written to disk
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync: %w", err)
	}

	return f.Close()
}

// setFileTimes sets the destination's access and modification times to t,
// and best-effort the creation time where the platform supports it.
func setFileTimes(path string, t time.Time) {
	_ = os.Chtimes(path, t, t)
	setCreationTime(path, t)
}
