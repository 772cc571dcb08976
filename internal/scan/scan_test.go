package scan_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/fieldmap"
	"github.com/san-kum/paraxial/internal/scan"
	"github.com/san-kum/paraxial/internal/transfer"
)

var _ = Describe("voltage scan", func() {
	var (
		anode    *fieldmap.Map
		field    beam.Field
		voltages []float64
	)

	BeforeEach(func() {
		// 1000 V/m per volt, flat over 10 cm.
		anode = &fieldmap.Map{
			Z:  []float64{0, 0.1},
			Ez: []float64{9e6, 9e6},
			Bz: []float64{0, 0},
		}
		var err error
		field, err = scan.AnodeField(anode, 0.1, 2001, 9000)
		Expect(err).NotTo(HaveOccurred())
		voltages = []float64{1000, 2000, 3000, 4000, 5000}
	})

	Describe("AnodeField", func() {
		It("samples box centers with zero Bz", func() {
			Expect(field.Len()).To(Equal(2000))
			Expect(field.Dz).To(BeNumerically("~", 0.1/2000, 1e-15))
			Expect(field.Z0).To(BeNumerically("~", 0.1/4000, 1e-15))
			Expect(field.Ez[0]).To(BeNumerically("~", 1000, 1e-9))
			for _, b := range field.Bz {
				Expect(b).To(BeZero())
			}
		})

		It("rejects a map with a single row", func() {
			_, err := scan.AnodeField(&fieldmap.Map{
				Z:  []float64{0},
				Ez: []float64{1},
				Bz: []float64{0},
			}, 0.1, 11, 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Run", func() {
		It("returns one row per voltage in order", func() {
			rows, err := scan.Run(context.Background(), field, voltages, scan.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(len(voltages)))

			for i, v := range voltages {
				want, err := scan.RowFor(field.ScaleEz(v), 1, transfer.Midpoint)
				Expect(err).NotTo(HaveOccurred())
				Expect(rows[i]).To(Equal(want))
			}
		})

		It("gives the squared entries of the total matrix", func() {
			rows, err := scan.Run(context.Background(), field, voltages[:1], scan.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())

			m, err := transfer.Total(field.ScaleEz(voltages[0]), 1, transfer.Midpoint)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0][0]).To(Equal(m[0] * m[0]))
			Expect(rows[0][1]).To(Equal(m[1] * m[1]))
		})

		It("drifts longer at lower voltage", func() {
			rows, err := scan.Run(context.Background(), field, voltages, scan.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(rows); i++ {
				Expect(rows[i][1]).To(BeNumerically("<", rows[i-1][1]))
			}
		})

		It("does not depend on the worker count", func() {
			serial := scan.DefaultOptions()
			serial.Workers = 1
			a, err := scan.Run(context.Background(), field, voltages, serial)
			Expect(err).NotTo(HaveOccurred())

			wide := scan.DefaultOptions()
			wide.Workers = 16
			b, err := scan.Run(context.Background(), field, voltages, wide)
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(Equal(b))
		})

		It("reports a beam left at rest as unphysical", func() {
			_, err := scan.Run(context.Background(), field, []float64{1000, 0}, scan.DefaultOptions())
			Expect(errors.Is(err, beam.ErrUnphysical)).To(BeTrue())
		})

		It("rejects unknown methods before scanning", func() {
			opts := scan.DefaultOptions()
			opts.Method = "bogus"
			_, err := scan.Run(context.Background(), field, voltages, opts)
			Expect(errors.Is(err, beam.ErrUnknownMethod)).To(BeTrue())
		})

		It("stops on a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := scan.Run(ctx, field, voltages, scan.DefaultOptions())
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
