package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRequiredColumns are the 17 export columns a batch must declare.
// Matching is exact and case-sensitive; extra columns are tolerated.
var DefaultRequiredColumns = []string{
	"Property ID", "1map NAD ID", "Pole Number", "Drop Number", "Stand Number",
	"Status", "Flow Name Groups", "Site", "Sections", "PONs", "Location Address",
	"Latitude", "Longitude", "Field Agent Name (pole permission)",
	"Latitude & Longitude", "lst_mod_by", "lst_mod_dt",
}

type Config struct {
	Processing struct {
		RequiredColumns []string `yaml:"required_columns"`
	} `yaml:"processing"`

	Columns struct {
		Status     string `yaml:"status"`
		PoleNumber string `yaml:"pole_number"`
		DropNumber string `yaml:"drop_number"`
		AgentName  string `yaml:"agent_name"`
		ModifiedBy string `yaml:"modified_by"`
		ModifiedAt string `yaml:"modified_at"`
		Latitude   string `yaml:"latitude"`
		Longitude  string `yaml:"longitude"`
	} `yaml:"columns"`

	Filter struct {
		Preset              string `yaml:"preset"` // pole_permissions | home_signups | custom
		Include             string `yaml:"include"`
		Exclude             string `yaml:"exclude"`
		UIDField            string `yaml:"uid_field"` // pole | drop | custom
		UIDColumn           string `yaml:"uid_column"`
		CaseSensitive       bool   `yaml:"case_sensitive"`
		ComplexFlowHandling *bool  `yaml:"complex_flow_handling"` // default true
	} `yaml:"filter"`

	Validation struct {
		EmailCheck      bool `yaml:"email_check"`
		CoordinateCheck bool `yaml:"coordinate_check"`
	} `yaml:"validation"`

	Dedupe struct {
		Policy string `yaml:"policy"` // earliest (only supported policy)
	} `yaml:"dedupe"`

	Grouping struct {
		Mode       string `yaml:"mode"` // none | weekly | monthly | custom
		RangeStart string `yaml:"range_start"`
		RangeEnd   string `yaml:"range_end"`
	} `yaml:"grouping"`

	Export struct {
		Format              string `yaml:"format"` // csv | sqlite
		OutDir              string `yaml:"out_dir"`
		IncludeSummarySheet bool   `yaml:"include_summary_sheet"`
		IncludeQCSheets     bool   `yaml:"include_qc_sheets"`
	} `yaml:"export"`
}

// Default returns the configuration used when a field is left unset.
func Default() Config {
	var cfg Config
	cfg.Processing.RequiredColumns = append([]string(nil), DefaultRequiredColumns...)
	cfg.Columns.Status = "Flow Name Groups"
	cfg.Columns.PoleNumber = "Pole Number"
	cfg.Columns.DropNumber = "Drop Number"
	cfg.Columns.AgentName = "Field Agent Name (pole permission)"
	cfg.Columns.ModifiedBy = "lst_mod_by"
	cfg.Columns.ModifiedAt = "lst_mod_dt"
	cfg.Columns.Latitude = "Latitude"
	cfg.Columns.Longitude = "Longitude"
	cfg.Filter.Preset = "pole_permissions"
	cfg.Validation.EmailCheck = true
	cfg.Validation.CoordinateCheck = true
	cfg.Dedupe.Policy = "earliest"
	cfg.Grouping.Mode = "weekly"
	cfg.Export.Format = "csv"
	cfg.Export.OutDir = "."
	cfg.Export.IncludeSummarySheet = true
	cfg.Export.IncludeQCSheets = true
	return cfg
}

// Load reads path and unmarshals it over the defaults, so a partial file
// only overrides the fields it names.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
