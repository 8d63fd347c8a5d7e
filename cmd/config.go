package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/crimeflow/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set crimeflow configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("data_dir: %s\n", cfg.DataDir)
		fmt.Printf("data_files: %s\n", strings.Join(cfg.DataFiles, ","))
		fmt.Printf("addr: %s\n", cfg.Addr)
		fmt.Printf("debug: %t\n", cfg.Debug)
		if cfg.DefaultYear > 0 {
			fmt.Printf("default_year: %d\n", cfg.DefaultYear)
		}
		fmt.Printf("default_offense: %s\n", cfg.DefaultOffense)
		fmt.Printf("default_street: %s\n", cfg.DefaultStreet)
		fmt.Printf("default_min_count: %d\n", cfg.DefaultMinCount)
		fmt.Printf("sankey_pad: %.1f\n", cfg.SankeyPad)
		fmt.Printf("sankey_thickness: %.1f\n", cfg.SankeyThickness)
		fmt.Printf("sankey_line_color: %s\n", cfg.SankeyLineColor)
		fmt.Printf("sankey_line_width: %.1f\n", cfg.SankeyLineWidth)
		fmt.Printf("map_zoom: %.1f\n", cfg.MapZoom)
		fmt.Printf("map_height: %d\n", cfg.MapHeight)
		fmt.Printf("map_color: %s\n", cfg.MapColor)
		fmt.Printf("plotly_url: %s\n", cfg.PlotlyURL)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, args[0], args[1]); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setKey(c *cfgpkg.Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	atof := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}
	var err error
	switch key {
	case "data_dir":
		c.DataDir = val
	case "data_files":
		c.DataFiles = splitList(val)
	case "addr":
		c.Addr = val
	case "debug":
		c.Debug, err = strconv.ParseBool(val)
	case "default_year":
		c.DefaultYear, err = atoi()
	case "default_offense":
		c.DefaultOffense = val
	case "default_street":
		c.DefaultStreet = val
	case "default_min_count":
		c.DefaultMinCount, err = atoi()
	case "sankey_pad":
		c.SankeyPad, err = atof()
	case "sankey_thickness":
		c.SankeyThickness, err = atof()
	case "sankey_line_color":
		c.SankeyLineColor = val
	case "sankey_line_width":
		c.SankeyLineWidth, err = atof()
	case "map_zoom":
		c.MapZoom, err = atof()
	case "map_height":
		c.MapHeight, err = atoi()
	case "map_color":
		c.MapColor = val
	case "plotly_url":
		c.PlotlyURL = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
