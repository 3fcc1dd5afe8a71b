package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/milk9111/motionseq/motion"
	"github.com/milk9111/motionseq/prefabs"
	"github.com/milk9111/motionseq/sim"
)

var inspectTicks int

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the loaded catalog, or a snapshot after --ticks ticks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if inspectTicks <= 0 {
			lib, err := prefabs.LoadLibrary(cfg.DefsPath, cfg.ClipsPath)
			if err != nil {
				return err
			}
			return printLibrary(cmd.OutOrStdout(), lib)
		}

		s, err := sim.Load(cfg, "inspect")
		if err != nil {
			return err
		}
		if err := s.Run(cmd.Context(), 0, inspectTicks); err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(s.Snapshot())
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectTicks, "ticks", 0, "run this many ticks and print the controller snapshot")
}

func printLibrary(w io.Writer, lib *prefabs.Library) error {
	names := lib.Catalog.Names()
	sort.Strings(names)
	fmt.Fprintf(w, "sequences (%d):\n", len(names))
	for _, name := range names {
		seq, _ := lib.Catalog.FindName(name)
		fmt.Fprintf(w, "  %-16s %08x  motions=%d\n", name, uint32(seq.Hash), len(seq.Motions))
	}

	fmt.Fprintf(w, "transitions (%d):\n", lib.Transitions.Len())
	for from := motion.Posture(0); from < motion.PostureCount; from++ {
		for to := motion.Posture(0); to < motion.PostureCount; to++ {
			if seq, ok := lib.Transitions.Lookup(from, to); ok {
				fmt.Fprintf(w, "  %-8s -> %-8s %s\n", from, to, seq.Name)
			}
		}
	}

	fmt.Fprintln(w, "default cog:")
	for p := motion.Posture(0); p < motion.PostureCount; p++ {
		if v, ok := lib.DefaultCOG[p]; ok {
			fmt.Fprintf(w, "  %-8s %.1f %.1f %.1f\n", p, v[0], v[1], v[2])
		}
	}
	return nil
}
