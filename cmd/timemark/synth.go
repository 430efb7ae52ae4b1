// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"github.com/timemark/timemark"
	"golang.org/x/sync/errgroup"
)

var synthConfig struct {
	workers      int
	depth        int
	width        int
	repeat       int
	leafDuration time.Duration
	format       string
	out          string
	compress     bool
	settingsPath string
}

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "generate synthetic activity trees and render their reports",
	Long: `
Runs a number of concurrent workers, each building an activity tree of the
requested depth and width with a simulated leaf workload, then renders one
report per worker in the chosen format.
`,
	Args: cobra.ExactArgs(0),
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().IntVarP(
		&synthConfig.workers, "workers", "c", 1, "number of concurrent workers")
	synthCmd.Flags().IntVar(
		&synthConfig.depth, "depth", 3, "nesting depth of each tree")
	synthCmd.Flags().IntVar(
		&synthConfig.width, "width", 2, "child activities per level")
	synthCmd.Flags().IntVar(
		&synthConfig.repeat, "repeat", 2, "occurrences of each child activity")
	synthCmd.Flags().DurationVar(
		&synthConfig.leafDuration, "leaf-duration", time.Millisecond,
		"simulated work per leaf occurrence")
	synthCmd.Flags().StringVar(
		&synthConfig.format, "format", "text", "report format (text, xml, table)")
	synthCmd.Flags().StringVarP(
		&synthConfig.out, "out", "o", "", "write reports to this file instead of stdout")
	synthCmd.Flags().BoolVar(
		&synthConfig.compress, "compress", false, "gzip the output")
	synthCmd.Flags().StringVar(
		&synthConfig.settingsPath, "settings", "", "load runtime settings from this YAML file")
}

func runSynth(cmd *cobra.Command, args []string) error {
	switch synthConfig.format {
	case "text", "xml", "table":
	default:
		return fmt.Errorf("unknown format %q", synthConfig.format)
	}

	settings := &timemark.Settings{}
	if synthConfig.settingsPath != "" {
		stop, err := settings.Watch(synthConfig.settingsPath, timemark.DefaultLogger)
		if err != nil {
			return err
		}
		defer stop()
	}

	roots := make([]*timemark.Activity, synthConfig.workers)
	var g errgroup.Group
	for i := 0; i < synthConfig.workers; i++ {
		g.Go(func() error {
			r := timemark.NewRecorder(fmt.Sprintf("worker-%d", i), settings, nil)
			if err := buildTree(r, 1); err != nil {
				return err
			}
			if err := r.Finish(); err != nil {
				return err
			}
			roots[i] = r.Root()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if synthConfig.out != "" {
		f, err := os.Create(synthConfig.out)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatal(err)
			}
		}()
		w = f
	}
	if synthConfig.compress {
		gw := gzip.NewWriter(w)
		defer func() {
			if err := gw.Close(); err != nil {
				log.Fatal(err)
			}
		}()
		w = gw
	}

	for _, root := range roots {
		if root == nil {
			// Timing was disabled; there is nothing to report.
			continue
		}
		if err := writeReport(w, root); err != nil {
			return err
		}
	}
	return nil
}

// buildTree opens width child activities at each level, recursing down to
// the configured depth, with repeat occurrences of every child. Leaves
// simulate work by sleeping. Names encode the level so that a child never
// shadows the activity directly above it.
func buildTree(r *timemark.Recorder, level int) error {
	for i := 0; i < synthConfig.width; i++ {
		name := fmt.Sprintf("L%d-%c", level, 'a'+i%26)
		for j := 0; j < synthConfig.repeat; j++ {
			if err := r.Start(name); err != nil {
				return err
			}
			if level < synthConfig.depth {
				if err := buildTree(r, level+1); err != nil {
					return err
				}
			} else {
				time.Sleep(synthConfig.leafDuration)
			}
			if err := r.End(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeReport(w io.Writer, root *timemark.Activity) error {
	switch synthConfig.format {
	case "xml":
		return timemark.WriteXML(root, w)
	case "table":
		s, err := timemark.RenderTable(root)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	default:
		s, err := timemark.RenderText(root)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}
}
