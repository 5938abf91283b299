package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
	"github.com/randalmurphal/zonebus/pkg/zonebus/zonestore"
)

func newZonesCmd(c *cli) *cobra.Command {
	zones := &cobra.Command{
		Use:   "zones",
		Short: "Manage the zone catalogue",
	}
	zones.AddCommand(newZonesAddCmd(c), newZonesListCmd(c), newZonesRmCmd(c))
	return zones
}

func newZonesAddCmd(c *cli) *cobra.Command {
	var minFlag, maxFlag, label string

	cmd := &cobra.Command{
		Use:     "add <id>",
		Short:   "Add or replace a zone",
		Example: "  zonebus zones add vault --min 5,-1,-1 --max 10,1,1 --label Vault",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := parseVec3i(minFlag)
			if err != nil {
				return fmt.Errorf("--min: %w", err)
			}
			hi, err := parseVec3i(maxFlag)
			if err != nil {
				return fmt.Errorf("--max: %w", err)
			}

			store, err := c.openStore(defaultStorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			box := geom.Box(lo, hi)
			rec := zonestore.Record{ID: args[0], Label: label, Min: box.Min, Max: box.Max}
			if err := store.Put(rec); err != nil {
				return err
			}
			c.logger.Info("zone saved", "zone_id", rec.ID, "bounds", box.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&minFlag, "min", "", "First corner as x,y,z")
	cmd.Flags().StringVar(&maxFlag, "max", "", "Opposite corner as x,y,z")
	cmd.Flags().StringVar(&label, "label", "", "Human readable name")
	_ = cmd.MarkFlagRequired("min")
	_ = cmd.MarkFlagRequired("max")
	return cmd
}

func newZonesListCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.openStore(defaultStorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List()
			if err != nil {
				return err
			}

			switch format {
			case "table":
				tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tLABEL\tMIN\tMAX")
				for _, r := range recs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Label, r.Min, r.Max)
				}
				return tw.Flush()
			case "yaml":
				enc := yaml.NewEncoder(c.out)
				defer enc.Close()
				return enc.Encode(zoneFile{Zones: toZoneDecls(recs)})
			default:
				return fmt.Errorf("unknown format %q (want table or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table|yaml")
	return cmd
}

func newZonesRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Remove zones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(defaultStorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			var errs []error
			for _, id := range args {
				if err := store.Delete(id); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", id, err))
					continue
				}
				c.logger.Info("zone removed", "zone_id", id)
			}
			return errors.Join(errs...)
		},
	}
}

// zoneFile mirrors the zones section of a settings file, so list -o yaml
// output can be pasted into one.
type zoneFile struct {
	Zones []zoneDecl `yaml:"zones"`
}

type zoneDecl struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
	Min   []int  `yaml:"min,flow"`
	Max   []int  `yaml:"max,flow"`
}

func toZoneDecls(recs []zonestore.Record) []zoneDecl {
	out := make([]zoneDecl, len(recs))
	for i, r := range recs {
		out[i] = zoneDecl{
			ID:    r.ID,
			Label: r.Label,
			Min:   []int{r.Min.X, r.Min.Y, r.Min.Z},
			Max:   []int{r.Max.X, r.Max.Y, r.Max.Z},
		}
	}
	return out
}

func parseVec3i(s string) (geom.Vec3i, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vec3i{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geom.Vec3i{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = n
	}
	return geom.V3i(v[0], v[1], v[2]), nil
}
