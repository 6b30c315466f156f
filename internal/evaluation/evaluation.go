// Package evaluation computes set-overlap retrieval quality metrics.
package evaluation

import "math"

// Result holds precision, recall, and F1 for one query, rounded to three
// decimals, plus the raw overlap counts.
type Result struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`

	TruePositives  int `json:"tp"`
	FalsePositives int `json:"fp"`
	FalseNegatives int `json:"fn"`
}

// Evaluate compares retrieved result identifiers against the relevant set.
// Duplicates within either list are counted once. Empty denominators yield
// zero rather than NaN.
func Evaluate(relevant, retrieved []string) Result {
	relevantSet := toSet(relevant)
	retrievedSet := toSet(retrieved)

	var tp int
	for id := range retrievedSet {
		if _, ok := relevantSet[id]; ok {
			tp++
		}
	}
	fp := len(retrievedSet) - tp
	fn := len(relevantSet) - tp

	var precision, recall, f1 float64
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return Result{
		Precision:      round3(precision),
		Recall:         round3(recall),
		F1:             round3(f1),
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
