package process

import (
	"fmt"

	"veloverify-engine/internal/domain"
)

// QC sheet names for the advisory validation checks. The date-error sheet
// name is distinct from the date-error bucket label: both render as sheets
// in the same report, so sharing a name would collide in the exporters.
const (
	SheetAgentMismatch = "Agent_Data_Mismatches"
	SheetBadCoords     = "Invalid_Coordinates"
	SheetDateErrors    = "Date_Parse_Error_Details"
)

// CollectValidationFindings runs the enabled advisory checks over the
// in-scope records. Findings flag records without removing them from the
// pipeline, so one record can be both kept and flagged.
func CollectValidationFindings(cfg domain.RunConfig, recs []domain.NormalizedRecord) []domain.QCFinding {
	var findings []domain.QCFinding

	for _, r := range recs {
		if cfg.EmailCheck && r.ModifiedBy != "" && !r.EmailValid {
			findings = append(findings, domain.QCFinding{
				Sheet:  SheetAgentMismatch,
				Record: r,
				Reason: fmt.Sprintf("modified-by %q is not a valid email address", r.ModifiedBy),
			})
		}
		if cfg.CoordinateCheck && !r.CoordinateValid {
			findings = append(findings, domain.QCFinding{
				Sheet:  SheetBadCoords,
				Record: r,
				Reason: coordReason(r),
			})
		}
	}

	return findings
}

func coordReason(r domain.NormalizedRecord) string {
	switch {
	case r.Latitude == nil && r.Longitude == nil:
		return "latitude and longitude are missing or out of range"
	case r.Latitude == nil:
		return "latitude is missing, non-numeric or outside [-90, 90]"
	default:
		return "longitude is missing, non-numeric or outside [-180, 180]"
	}
}
