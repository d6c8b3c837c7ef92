package appcore

import (
	"encoding/json"
	"fmt"
	"io"

	"hashcheck/internal/input"
	"hashcheck/internal/pipeline"
	"hashcheck/pkg/api"
)

func writeSummary(w io.Writer, o Options, nst input.NeedleStats, tot pipeline.Totals, hayInvalid int) error {
	if o.JSONSummary {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.SummaryV1{
			HashType:         o.HashType.Name,
			Needles:          tot.Needles,
			Matched:          tot.Matched,
			Unmatched:        tot.Unmatched,
			NeedleLines:      nst.Lines,
			InvalidNeedles:   nst.Invalid,
			DuplicateNeedles: nst.Duplicates,
			HaystackRead:     tot.Read,
			HaystackInvalid:  hayInvalid,
			Batches:          tot.Batches,
			ShortCircuit:     tot.ShortCircuit,
			Saturated:        tot.Saturated,
			MatchFile:        o.MatchFile,
			NoMatchFile:      o.NoMatchFile,
		})
	}
	_, err := fmt.Fprintf(w, "matched %d, not matched %d, total %d\n",
		tot.Matched, tot.Unmatched, tot.Needles)
	return err
}
