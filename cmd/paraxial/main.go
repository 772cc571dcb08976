package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/paraxial/internal/config"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	method     string
	gamma      float64
	samples    int
	length     float64
	fieldMap   string
	// steps
	every int
	// trace
	rayX float64
	rayP float64
	// scan
	voltages      []float64
	normalization float64
	workers       int
	// cumulative
	noSave bool
	// focus
	focusTarget string
	bzMin       float64
	bzMax       float64
	focusSteps  int
	// export-svg
	outFile   string
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "paraxial",
		Short:         "paraxial transfer matrices for electron beamlines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".paraxial", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	totalCmd := &cobra.Command{
		Use:   "total",
		Short: "total transfer matrix of the beamline",
		RunE:  runTotal,
	}
	beamlineFlags(totalCmd)

	cumulativeCmd := &cobra.Command{
		Use:   "cumulative",
		Short: "cumulative transfer matrices along z",
		RunE:  runCumulative,
	}
	beamlineFlags(cumulativeCmd)
	cumulativeCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "dump per-step transfer matrices",
		RunE:  runSteps,
	}
	beamlineFlags(stepsCmd)
	stepsCmd.Flags().IntVar(&every, "every", 1, "print every n-th step")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "propagate a ray through the beamline",
		RunE:  runTrace,
	}
	beamlineFlags(traceCmd)
	traceCmd.Flags().Float64Var(&rayX, "x", 1e-3, "initial offset (m)")
	traceCmd.Flags().Float64Var(&rayP, "p", 0, "initial transverse momentum")

	energyCmd := &cobra.Command{
		Use:   "energy",
		Short: "plot the beam energy profile",
		RunE:  runEnergy,
	}
	beamlineFlags(energyCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [method1] [method2] ...",
		Short: "compare integration methods on the same beamline",
		RunE:  runCompare,
	}
	beamlineFlags(compareCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "m00² and m01² against anode voltage",
		RunE:  runScan,
	}
	beamlineFlags(scanCmd)
	scanCmd.Flags().Float64SliceVar(&voltages, "voltages", nil, "anode voltages")
	scanCmd.Flags().Float64Var(&normalization, "normalization", config.DefaultNormalization, "voltage the field map was computed at")
	scanCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent voltages")

	focusCmd := &cobra.Command{
		Use:   "focus",
		Short: "search the Bz scale that focuses at the exit",
		RunE:  runFocus,
	}
	beamlineFlags(focusCmd)
	focusCmd.Flags().StringVar(&focusTarget, "target", "point", "focus condition (point, parallel)")
	focusCmd.Flags().Float64Var(&bzMin, "bz-min", 0, "smallest Bz scale")
	focusCmd.Flags().Float64Var(&bzMax, "bz-max", 2, "largest Bz scale")
	focusCmd.Flags().IntVar(&focusSteps, "steps", 41, "grid points")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run (latest if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export m00 and m01 of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout if empty)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "width in pixels")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "height in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := config.ListGroups()
			if len(args) > 0 {
				groups = args
			}
			for _, g := range groups {
				names := config.ListPresets(g)
				if len(names) == 0 {
					fmt.Printf("no presets for group: %s\n", g)
					continue
				}
				fmt.Printf("%s:\n", g)
				for _, n := range names {
					fmt.Printf("  %s/%s\n", g, n)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(totalCmd, cumulativeCmd, stepsCmd, traceCmd, energyCmd, compareCmd, scanCmd, focusCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func beamlineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as group/name")
	cmd.Flags().StringVar(&method, "method", config.DefaultMethod, "integration method")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "initial Lorentz factor")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "grid samples")
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "beamline length (m)")
	cmd.Flags().StringVar(&fieldMap, "map", "", "field map file (z, Ez[, Bz])")
}

// loadConfig layers preset, config file and explicitly set flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		group, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be group/name, got %q", preset)
		}
		cfg = config.GetPreset(group, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(group))
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("gamma") {
		cfg.GammaInitial = gamma
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("length") {
		cfg.End = cfg.Start + length
	}
	if flags.Changed("map") {
		cfg.FieldMap = fieldMap
	}
	if flags.Lookup("voltages") != nil {
		if flags.Changed("voltages") {
			cfg.Scan.Voltages = voltages
		}
		if flags.Changed("normalization") {
			cfg.Scan.Normalization = normalization
		}
		if flags.Changed("workers") {
			cfg.Scan.Workers = workers
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"method":  cfg.Method,
		"gamma0":  cfg.GammaInitial,
		"samples": cfg.Samples,
		"range":   fmt.Sprintf("[%g, %g]", cfg.Start, cfg.End),
	}).Debug("beamline configured")

	return cfg, nil
}
