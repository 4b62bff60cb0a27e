// colscanbench is a minimal diagnostic CLI that runs a scan and reports
// row and chunk counts. It is not a query planner: descriptor fields that
// would normally come from one (predicate, hive partitioning) are not
// exposed here, only the knobs useful for exercising the Source directly.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/spf13/cobra"

	"github.com/parquetsource/colscan"
	"github.com/parquetsource/colscan/common"
	"github.com/parquetsource/colscan/decoder"
	"github.com/parquetsource/colscan/descriptor"
	"github.com/parquetsource/colscan/reader"
	"github.com/parquetsource/colscan/reader/localfs"
)

func defaultThreads() int {
	if v := common.GetEnvironmentVariable(common.EEnvironmentVariable.ConcurrencyValue()); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.GOMAXPROCS(0)
}

func defaultPrefetchSize() int {
	n, _ := strconv.Atoi(common.GetEnvironmentVariable(common.EEnvironmentVariable.PrefetchSize()))
	return n
}

func defaultUseStatistics() bool {
	return common.GetEnvironmentVariable(common.EEnvironmentVariable.UseStatistics()) != "false"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		columns     string
		prefetch    int
		threads     int
		allowMiss   bool
		ramBudget   int64
		maxDecodes  int64
		sliceOffset int64
		sliceLength int64
	)

	cmd := &cobra.Command{
		Use:   "colscanbench FILE [FILE...]",
		Short: "Run a columnar scan over one or more local files and report counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opener := localfs.New()

			firstRaw, err := opener.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			firstFooter, err := firstRaw.Footer(cmd.Context())
			_ = firstRaw.Close()
			if err != nil {
				return fmt.Errorf("reading footer for %s: %w", args[0], err)
			}

			desc := &descriptor.ScanDescriptor{
				Sources:             args,
				FirstSchema:         firstFooter.Schema,
				AllowMissingColumns: allowMiss,
				UseStatistics:       defaultUseStatistics(),
				PrefetchSize:        prefetch,
				NThreads:            threads,
				RunAsync:            false,
			}
			if columns != "" {
				projected, err := projectSchema(firstFooter.Schema, strings.Split(columns, ","))
				if err != nil {
					return err
				}
				desc.ProjectedSchema = projected
			}
			if sliceLength > 0 {
				desc.PreSlice = &descriptor.Slice{Offset: sliceOffset, Length: sliceLength}
			}

			logger := common.NewScanLogger(common.NewScanID(), common.LogNone, os.TempDir())

			factory := &reader.Factory{
				Descriptor:     desc,
				Sync:           opener,
				DecoderFactory: decoder.NewReferenceFactory(ramBudget, maxDecodes),
				Logger:         logger,
				CloudOpts: reader.CloudOptions{
					UserAgent: common.AddUserAgentPrefix(common.UserAgent),
				},
			}

			src, err := colscan.New(cmd.Context(), desc, factory, logger)
			if err != nil {
				return err
			}

			var totalRows, totalBatches, totalChunks int64
			for {
				batches, done, err := src.GetBatches(cmd.Context())
				if err != nil {
					return err
				}
				if done {
					break
				}
				for _, b := range batches {
					totalRows += b.NumRows()
					totalBatches++
					totalChunks = b.ChunkIndex
				}
			}

			fmt.Printf("source=%s files=%d rows=%d batches=%d last_chunk_index=%d\n",
				src.Fmt(), len(args), totalRows, totalBatches, totalChunks)
			return nil
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated column projection (default: all columns)")
	cmd.Flags().IntVar(&prefetch, "prefetch", defaultPrefetchSize(), "target number of readers to keep initialized ahead of consumption (env COLSCAN_PREFETCH_SIZE)")
	cmd.Flags().IntVar(&threads, "threads", defaultThreads(), "decode thread-pool size (env COLSCAN_NUM_THREADS)")
	cmd.Flags().BoolVar(&allowMiss, "allow-missing-columns", false, "null out projected columns absent from a file instead of failing")
	cmd.Flags().Int64Var(&ramBudget, "ram-budget-bytes", 256<<20, "aggregate in-flight decode buffer budget")
	cmd.Flags().Int64Var(&maxDecodes, "max-concurrent-decodes", int64(runtime.GOMAXPROCS(0)), "max concurrent batch materializations")
	cmd.Flags().Int64Var(&sliceOffset, "slice-offset", 0, "pre-slice offset across the concatenated row stream")
	cmd.Flags().Int64Var(&sliceLength, "slice-length", 0, "pre-slice length; 0 disables slicing")

	return cmd
}

func projectSchema(full *arrow.Schema, names []string) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		idx := full.FieldIndices(name)
		if len(idx) == 0 {
			return nil, fmt.Errorf("column %q not found in first file's schema", name)
		}
		fields = append(fields, full.Field(idx[0]))
	}
	return arrow.NewSchema(fields, nil), nil
}
