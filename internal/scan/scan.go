// Package scan evaluates a beamline at a series of accelerating voltages.
//
// Each voltage rescales a unit-voltage Ez map; the result for each voltage is
// the pair (m00², m01²) of the total transfer matrix, which is what a
// beam-size versus voltage measurement is linear in.
package scan

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/fieldmap"
	"github.com/san-kum/paraxial/internal/transfer"
)

// Row is {m00², m01²} for one voltage.
type Row [2]float64

type Options struct {
	Method       transfer.Method
	GammaInitial float64
	Workers      int
}

func DefaultOptions() Options {
	return Options{
		Method:       transfer.Midpoint,
		GammaInitial: 1,
		Workers:      4,
	}
}

// RowFor computes the scan row of a single field.
func RowFor(f beam.Field, gammaInitial float64, m transfer.Method) (Row, error) {
	M, err := transfer.Total(f, gammaInitial, m)
	if err != nil {
		return Row{}, err
	}
	return Row{M[0] * M[0], M[1] * M[1]}, nil
}

// Run scales f.Ez by every voltage and returns the rows in voltage order.
// The first failure cancels the remaining work.
func Run(ctx context.Context, f beam.Field, voltages []float64, opts Options) ([]Row, error) {
	if _, err := transfer.ParseMethod(string(opts.Method)); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	rows := make([]Row, len(voltages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range voltages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := RowFor(f.ScaleEz(v), opts.GammaInitial, opts.Method)
			if err != nil {
				return fmt.Errorf("scan: voltage %g: %w", v, err)
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"voltages": len(voltages),
		"method":   opts.Method,
		"elapsed":  time.Since(start),
	}).Debug("voltage scan complete")

	return rows, nil
}

// AnodeField samples a field map at the centers of n-1 equal boxes along
// [0, length], divided by normalization so that Ez is per volt of anode
// voltage. Bz is zero.
func AnodeField(m *fieldmap.Map, length float64, n int, normalization float64) (beam.Field, error) {
	if normalization == 0 {
		normalization = 1
	}
	z, dz := fieldmap.CenteredGrid(length, n)
	return m.Sample(z, dz, 1/normalization, 0)
}
