package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/paraxial/internal/beam"
	"github.com/san-kum/paraxial/internal/export"
	"github.com/san-kum/paraxial/internal/fieldmap"
	"github.com/san-kum/paraxial/internal/kinematics"
	"github.com/san-kum/paraxial/internal/metrics"
	"github.com/san-kum/paraxial/internal/optim"
	"github.com/san-kum/paraxial/internal/scan"
	"github.com/san-kum/paraxial/internal/storage"
	"github.com/san-kum/paraxial/internal/transfer"
)

func runTotal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Field()
	if err != nil {
		return err
	}

	start := time.Now()
	m, err := transfer.Total(f, cfg.GammaInitial, cfg.MethodName())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(header("total transfer matrix"))
	fmt.Println(renderMatrix(m))
	fmt.Println(field("method", "%s", cfg.MethodName()))
	fmt.Println(field("samples", "%d", f.Len()))
	fmt.Println(field("det", "%.10g", m.Det()))
	fmt.Println(field("trace", "%.10g", m.Trace()))
	if m[2] != 0 {
		fmt.Println(field("focal length", "%.6g m", -1/m[2]))
	}
	fmt.Println(field("elapsed", "%v", elapsed.Round(time.Microsecond)))
	if !m.IsFinite() {
		fmt.Println(warnStyle.Render("matrix has non-finite entries"))
	}
	return nil
}

func runCumulative(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Field()
	if err != nil {
		return err
	}

	cum, err := transfer.Cumulative(f, cfg.GammaInitial, cfg.MethodName())
	if err != nil {
		return err
	}
	z := f.Positions()

	plotMatrices(z, cum)

	values := metrics.Evaluate(z, cum, metrics.Defaults()...)
	printMetrics(values)

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Label:        preset,
		Method:       string(cfg.MethodName()),
		GammaInitial: cfg.GammaInitial,
		Dz:           f.Dz,
		Z0:           f.Z0,
		FieldMap:     cfg.FieldMap,
		Metrics:      values,
	}, z, cum)
	if errors.Is(err, storage.ErrNonFinite) {
		fmt.Println(warnStyle.Render("run not saved: " + err.Error()))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(field("run", "%s", runID))
	return nil
}

func plotMatrices(z []float64, cum beam.Sequence) {
	m00 := make([]float64, len(cum))
	m01 := make([]float64, len(cum))
	for i, m := range cum {
		m00[i] = m[0]
		m01[i] = m[1]
	}

	caption := fmt.Sprintf("z from %.4g to %.4g m", z[0], z[len(z)-1])
	fmt.Println(header("m00 along z"))
	fmt.Println(asciigraph.Plot(m00,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()
	fmt.Println(header("m01 along z"))
	fmt.Println(asciigraph.Plot(m01,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(field(name, "%.6g", values[name]))
	}
}

func runSteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Field()
	if err != nil {
		return err
	}

	seq, err := transfer.StepMatrices(f, cfg.GammaInitial, cfg.MethodName())
	if err != nil {
		return err
	}
	z := f.Positions()

	stride := every
	if stride < 1 {
		stride = 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "I\tZ\tM00\tM01\tM10\tM11")
	for i := 0; i < len(seq); i += stride {
		m := seq[i]
		fmt.Fprintf(w, "%d\t%.6g\t%.12g\t%.12g\t%.12g\t%.12g\n", i, z[i], m[0], m[1], m[2], m[3])
	}
	return w.Flush()
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Field()
	if err != nil {
		return err
	}

	m, err := transfer.Total(f, cfg.GammaInitial, cfg.MethodName())
	if err != nil {
		return err
	}

	in := beam.Vec2{X: rayX, P: rayP}
	out := m.Apply(in)

	fmt.Println(header("ray trace"))
	fmt.Println(field("in", "x=% .6e  p=% .6e", in.X, in.P))
	fmt.Println(field("out", "x=% .6e  p=% .6e", out.X, out.P))
	if out.P != 0 {
		fmt.Println(field("crossover", "%.6g m after exit", -out.X/out.P))
	}
	return nil
}

func runEnergy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Field()
	if err != nil {
		return err
	}

	p, err := kinematics.Compute(f.Ez, f.Dz, cfg.GammaInitial)
	if err != nil {
		return err
	}

	kinetic := make([]float64, p.Len())
	for i, g := range p.Gamma {
		kinetic[i] = (g - 1) * beam.RestEnergy / 1e3
	}

	fmt.Println(header("kinetic energy (keV)"))
	fmt.Println(asciigraph.Plot(kinetic,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("gamma %.6g -> %.6g", p.Gamma[0], p.Gamma[p.Len()-1])),
	))
	fmt.Println()
	fmt.Println(field("beta exit", "%.8f", p.Beta[p.Len()-1]))
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Field()
	if err != nil {
		return err
	}

	methods := transfer.NewRegistry().Methods()
	if len(args) > 0 {
		methods = methods[:0]
		for _, a := range args {
			m, err := transfer.ParseMethod(a)
			if err != nil {
				return err
			}
			methods = append(methods, m)
		}
	}

	fmt.Println(header(fmt.Sprintf("%d samples, gamma0 = %g", f.Len(), cfg.GammaInitial)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tM00\tM01\tM10\tM11\tDET-1\tTIME")
	for _, m := range methods {
		start := time.Now()
		M, err := transfer.Total(f, cfg.GammaInitial, m)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", m, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.10g\t%.10g\t%.10g\t%.10g\t%.2e\t%v\n",
			m, M[0], M[1], M[2], M[3], M.Det()-1, time.Since(start).Round(time.Microsecond))
	}
	return w.Flush()
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Scan.Voltages) == 0 {
		return fmt.Errorf("no voltages to scan (use --voltages or scan.voltages)")
	}

	var f beam.Field
	if cfg.FieldMap != "" {
		m, err := fieldmap.LoadFile(cfg.FieldMap)
		if err != nil {
			return err
		}
		f, err = scan.AnodeField(m, cfg.End-cfg.Start, cfg.Samples, cfg.Scan.Normalization)
		if err != nil {
			return err
		}
	} else {
		f, err = cfg.Field()
		if err != nil {
			return err
		}
		f = f.ScaleEz(1 / cfg.Scan.Normalization)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := scan.Options{
		Method:       cfg.MethodName(),
		GammaInitial: cfg.GammaInitial,
		Workers:      cfg.Scan.Workers,
	}
	rows, err := scan.Run(ctx, f, cfg.Scan.Voltages, opts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VOLTAGE\tM00^2\tM01^2\tM01")
	for i, v := range cfg.Scan.Voltages {
		fmt.Fprintf(w, "%g\t%.10g\t%.10g\t%.10g\n", v, rows[i][0], rows[i][1], math.Sqrt(rows[i][1]))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMETHOD\tGAMMA0\tSAMPLES\tM00\tM01")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%.6g\t%.6g\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.GammaInitial,
			run.Samples,
			run.Total[0],
			run.Total[1],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var meta *storage.RunMetadata
	var err error
	if len(args) > 0 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
	}
	if err != nil {
		return err
	}

	z, cum, err := st.LoadMatrices(meta.ID)
	if err != nil {
		return err
	}
	if len(cum) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(field("run", "%s", meta.ID))
	fmt.Println(field("method", "%s", meta.Method))
	fmt.Println(field("samples", "%d", len(cum)))
	printMetrics(meta.Metrics)
	fmt.Println()

	plotMatrices(z, cum)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	z, cum, err := st.LoadMatrices(args[0])
	if err != nil {
		return err
	}

	m00 := make([]float64, len(cum))
	m01 := make([]float64, len(cum))
	for i, m := range cum {
		m00[i] = m[0]
		m01[i] = m[1]
	}

	svg := export.CurvesToSVG(z, []export.Series{
		{Name: "m00", Color: "#00ffff", Values: m00},
		{Name: "m01", Color: "#ff88ff", Values: m01},
	}, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no data to export")
	}

	if outFile == "" {
		_, err = fmt.Println(svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

// focusTargets maps a focusing condition to the matrix entry it zeroes.
var focusTargets = map[string]int{
	"point":    1, // point-to-point: m01 = 0
	"parallel": 0, // parallel-to-point: m00 = 0
}

func runFocus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, ok := focusTargets[focusTarget]
	if !ok {
		return fmt.Errorf("unknown focus target %q (point, parallel)", focusTarget)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	search := optim.NewGridSearch(
		[]string{"bz_scale"},
		[][]float64{fieldmap.Linspace(bzMin, bzMax, focusSteps)},
	)
	params, best, err := search.Search(ctx, func(ctx context.Context, p map[string]float64) (float64, error) {
		trial := cfg.Clone()
		trial.BzScale = p["bz_scale"]
		f, err := trial.Field()
		if err != nil {
			return 0, err
		}
		m, err := transfer.Total(f, trial.GammaInitial, trial.MethodName())
		if err != nil {
			return 0, err
		}
		return math.Abs(m[idx]), nil
	})
	if err != nil {
		return err
	}

	fmt.Println(header(focusTarget + " focus"))
	fmt.Println(field("bz scale", "%.6g", params["bz_scale"]))
	fmt.Println(field("residual", "%.6g", best))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}
