package lcdump

import (
	"context"

	"github.com/apex/log"
	"github.com/blacktop/lcdump/pkg/macho"
	"golang.org/x/sync/errgroup"
)

// A Result is the outcome of decoding one file.
type Result struct {
	Path string
	File *macho.File
	Err  error
}

// DecodeAll decodes paths concurrently, at most jobs at a time, each with
// its own file handle. Results come back in the order of paths. A file that
// fails to decode only sets its own Err; the returned error is non-nil only
// when ctx is cancelled.
func DecodeAll(ctx context.Context, paths []string, conf *macho.Config, jobs int) ([]Result, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.WithField("path", path).Debug("Decoding")
			f, err := macho.Open(path, conf)
			if err != nil {
				log.WithError(err).WithField("path", path).Debug("Decode failed")
			}
			results[i] = Result{Path: path, File: f, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
