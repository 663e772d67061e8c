package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/tbirdso/go-bsplinegradient/compose"
	"github.com/tbirdso/go-bsplinegradient/image"
	"github.com/tbirdso/go-bsplinegradient/simd"
	"github.com/tbirdso/go-bsplinegradient/workerpool"
)

// unsetFill marks a fill entry whose input slot stays unset.
const unsetFill = "-"

var pixelTypes = []string{"float32", "float64", "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64"}

type options struct {
	size       []int
	components int
	fill       []string
	pixelType  string
	workers    int
	workUnits  int
	geometry   string
	dump       bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "vectorcompose",
		Short:         "Compose constant scalar images into one vector image",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addFlags(cmd.Flags(), opts)
	return cmd
}

func addFlags(fs *pflag.FlagSet, o *options) {
	fs.IntSliceVar(&o.size, "size", []int{4, 4}, "image size per axis, axis 0 first")
	fs.IntVar(&o.components, "components", 2, "number of components per output pixel")
	fs.StringSliceVar(&o.fill, "fill", nil, `constant value per input; "-" leaves the input unset (default: input i holds i+1)`)
	fs.StringVar(&o.pixelType, "type", "float32", "pixel type ("+strings.Join(pixelTypes, ", ")+")")
	fs.IntVar(&o.workers, "workers", 0, "worker pool size (0 = GOMAXPROCS)")
	fs.IntVar(&o.workUnits, "work-units", 0, "number of work units (0 = one per worker)")
	fs.StringVar(&o.geometry, "geometry", "physical", "input geometry check (physical or region)")
	fs.BoolVar(&o.dump, "print", false, "print every output pixel")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func run(ctx context.Context, o *options, stdout, stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	compose.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer compose.SetLogger(nil)

	if len(o.size) == 0 || slices.ContainsFunc(o.size, func(s int) bool { return s <= 0 }) {
		return fmt.Errorf("invalid --size %v: every axis must be positive", o.size)
	}
	if o.components < 1 {
		return fmt.Errorf("invalid --components %d: must be at least 1", o.components)
	}
	if len(o.fill) > o.components {
		return fmt.Errorf("--fill has %d entries for %d components", len(o.fill), o.components)
	}
	check, err := compose.ParseGeometryCheck(o.geometry)
	if err != nil {
		return err
	}

	pool := workerpool.New(o.workers)
	defer pool.Close()

	filterOpts := []compose.Option{
		compose.WithPool(pool),
		compose.WithWorkUnits(o.workUnits),
		compose.WithGeometryCheck(check),
	}

	switch o.pixelType {
	case "float32":
		return runTyped[float32](ctx, o, pool, filterOpts, stdout)
	case "float64":
		return runTyped[float64](ctx, o, pool, filterOpts, stdout)
	case "int8":
		return runTyped[int8](ctx, o, pool, filterOpts, stdout)
	case "int16":
		return runTyped[int16](ctx, o, pool, filterOpts, stdout)
	case "int32":
		return runTyped[int32](ctx, o, pool, filterOpts, stdout)
	case "int64":
		return runTyped[int64](ctx, o, pool, filterOpts, stdout)
	case "uint8":
		return runTyped[uint8](ctx, o, pool, filterOpts, stdout)
	case "uint16":
		return runTyped[uint16](ctx, o, pool, filterOpts, stdout)
	case "uint32":
		return runTyped[uint32](ctx, o, pool, filterOpts, stdout)
	case "uint64":
		return runTyped[uint64](ctx, o, pool, filterOpts, stdout)
	default:
		return fmt.Errorf("unsupported --type %q (want one of %s)", o.pixelType, strings.Join(pixelTypes, ", "))
	}
}

// fillValues resolves the constant for every input slot; ok[i] is false for
// an unset slot.
func fillValues(fill []string, components int) (values []float64, ok []bool, err error) {
	values = make([]float64, components)
	ok = make([]bool, components)
	if len(fill) == 0 {
		for i := range values {
			values[i], ok[i] = float64(i+1), true
		}
		return values, ok, nil
	}
	for i, s := range fill {
		s = strings.TrimSpace(s)
		if s == unsetFill || s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --fill entry %d %q: %w", i, s, err)
		}
		values[i], ok[i] = v, true
	}
	return values, ok, nil
}

// makeInputs synthesizes one constant image per set slot concurrently.
func makeInputs[T simd.Lanes](ctx context.Context, size []int, values []float64, ok []bool) ([]*image.Image[T], error) {
	inputs := make([]*image.Image[T], len(values))
	g, gctx := errgroup.WithContext(ctx)
	for i := range values {
		if !ok[i] {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img := image.NewImage[T](size...)
			img.Fill(T(values[i]))
			inputs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

type componentStats struct {
	min, max, mean float64
}

// stats computes per-component statistics, one component per pool task.
func stats[T simd.Lanes](pool *workerpool.Pool, out *image.VectorImage[T]) []componentStats {
	result := make([]componentStats, out.Components())
	pool.ParallelFor(out.Components(), func(start, end int) {
		for i := start; i < end; i++ {
			comp := out.Component(i)
			s := componentStats{min: math.Inf(1), max: math.Inf(-1)}
			count := 0
			for n := range comp.NumberOfLines() {
				for _, v := range comp.RowSlice(n) {
					f := float64(v)
					s.min = min(s.min, f)
					s.max = max(s.max, f)
					s.mean += f
					count++
				}
			}
			if count > 0 {
				s.mean /= float64(count)
			} else {
				s = componentStats{}
			}
			result[i] = s
		}
	})
	return result
}

func runTyped[T simd.Lanes](ctx context.Context, o *options, pool *workerpool.Pool, opts []compose.Option, w io.Writer) error {
	values, ok, err := fillValues(o.fill, o.components)
	if err != nil {
		return err
	}
	inputs, err := makeInputs[T](ctx, o.size, values, ok)
	if err != nil {
		return err
	}

	out, err := compose.ComposeVectorImageContext(ctx, inputs, o.components, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "simd: %s (%d-byte vectors)\n", simd.CurrentName(), simd.CurrentWidth())
	fmt.Fprintf(w, "region: %v\n", out.Region())
	fmt.Fprintf(w, "components: %d (%s)\n", out.Components(), o.pixelType)
	for i, s := range stats(pool, out) {
		state := "set"
		if !ok[i] {
			state = "unset"
		}
		fmt.Fprintf(w, "component %d (%s): min=%s max=%s mean=%s\n", i, state,
			formatStat[T](s.min), formatStat[T](s.max), formatStat[T](s.mean))
	}

	if o.dump {
		printPixels(w, out)
	}
	return nil
}

// formatStat prints v with the precision of T, so float32 values read back
// as they were filled.
func formatStat[T simd.Lanes](v float64) string {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return strconv.FormatFloat(v, 'g', -1, 32)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func printPixels[T simd.Lanes](w io.Writer, out *image.VectorImage[T]) {
	region := out.Region()
	region.ForEachLine(func(start []int) {
		idx := slices.Clone(start)
		for x := range region.Size[0] {
			idx[0] = start[0] + x
			coords := lo.Map(idx, func(v, _ int) string { return strconv.Itoa(v) })
			values := lo.Map(out.Pixel(idx), func(v T, _ int) string { return fmt.Sprint(v) })
			fmt.Fprintf(w, "(%s) [%s]\n", strings.Join(coords, ","), strings.Join(values, " "))
		}
	})
}
