package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/crimeflow/internal/chart"
	"github.com/KaramelBytes/crimeflow/internal/dashboard"
	"github.com/KaramelBytes/crimeflow/internal/flow"
)

// DefaultDataFiles are the yearly extracts the dashboard loads when no
// data_files are configured.
var DefaultDataFiles = []string{
	"crime_2015.csv", "crime_2016.csv", "crime_2017.csv", "crime_2018.csv",
	"crime_2019.csv", "crime_2020.csv", "crime_2021.csv", "crime_2022.csv",
}

// Global configuration structure.
type Global struct {
	DataDir   string   `mapstructure:"data_dir" yaml:"data_dir"`
	DataFiles []string `mapstructure:"data_files" yaml:"data_files" validate:"min=1,dive,required"`
	Addr      string   `mapstructure:"addr" yaml:"addr" validate:"required,hostname_port"`
	Debug     bool     `mapstructure:"debug" yaml:"debug"`

	// Initial widget values of the dashboard page
	DefaultYear     int    `mapstructure:"default_year" yaml:"default_year" validate:"gte=0"`
	DefaultOffense  string `mapstructure:"default_offense" yaml:"default_offense"`
	DefaultStreet   string `mapstructure:"default_street" yaml:"default_street"`
	DefaultMinCount int    `mapstructure:"default_min_count" yaml:"default_min_count" validate:"gte=0"`

	// Flow figure styling
	SankeyPad       float64 `mapstructure:"sankey_pad" yaml:"sankey_pad" validate:"gte=0"`
	SankeyThickness float64 `mapstructure:"sankey_thickness" yaml:"sankey_thickness" validate:"gt=0"`
	SankeyLineColor string  `mapstructure:"sankey_line_color" yaml:"sankey_line_color" validate:"required"`
	SankeyLineWidth float64 `mapstructure:"sankey_line_width" yaml:"sankey_line_width" validate:"gte=0"`

	// Map figure
	MapZoom   float64 `mapstructure:"map_zoom" yaml:"map_zoom" validate:"gte=0,lte=22"`
	MapHeight int     `mapstructure:"map_height" yaml:"map_height" validate:"gt=0"`
	MapColor  string  `mapstructure:"map_color" yaml:"map_color" validate:"required"`

	PlotlyURL string `mapstructure:"plotly_url" yaml:"plotly_url" validate:"required,url"`
}

var validate = validator.New()

// Validate checks value ranges.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FlowStyle returns the configured flow node styling.
func (c *Global) FlowStyle() flow.Style {
	return flow.Style{
		Pad:       c.SankeyPad,
		Thickness: c.SankeyThickness,
		LineColor: c.SankeyLineColor,
		LineWidth: c.SankeyLineWidth,
	}
}

// Dashboard returns the dashboard presentation settings.
func (c *Global) Dashboard() dashboard.Settings {
	m := chart.DefaultMapOptions()
	m.Zoom = c.MapZoom
	m.Height = c.MapHeight
	m.Color = c.MapColor
	return dashboard.Settings{Map: m, Flow: c.FlowStyle()}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".crimeflow"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.crimeflow/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CRIMEFLOW")
	v.AutomaticEnv()

	style := flow.DefaultStyle()
	mapOpt := chart.DefaultMapOptions()
	v.SetDefault("data_dir", ".")
	v.SetDefault("data_files", DefaultDataFiles)
	v.SetDefault("addr", "127.0.0.1:8050")
	v.SetDefault("debug", false)
	v.SetDefault("default_year", 0)
	v.SetDefault("default_offense", "Aggravated Assault")
	v.SetDefault("default_street", "Gibson St")
	v.SetDefault("default_min_count", dashboard.DefaultMinCount)
	v.SetDefault("sankey_pad", style.Pad)
	v.SetDefault("sankey_thickness", style.Thickness)
	v.SetDefault("sankey_line_color", style.LineColor)
	v.SetDefault("sankey_line_width", style.LineWidth)
	v.SetDefault("map_zoom", mapOpt.Zoom)
	v.SetDefault("map_height", mapOpt.Height)
	v.SetDefault("map_color", mapOpt.Color)
	v.SetDefault("plotly_url", chart.DefaultPlotlyURL)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
