// Package watchlist evaluates detected labels against a configured watch
// list. Evaluation is pure: no network, no storage, deterministic for a
// given label list and configuration.
package watchlist

import (
	"fmt"
	"strings"
	"time"

	"framewatch/internal/config"
	"framewatch/internal/dao"
)

type Evaluator struct {
	names         map[string]struct{}
	minConfidence float64
}

// NewEvaluator builds the membership set. Duplicate entries differing only
// by case collapse into a single membership test.
func NewEvaluator(conf *config.WatchListConfig) *Evaluator {
	names := make(map[string]struct{}, len(conf.Labels))
	for _, name := range conf.Labels {
		names[strings.ToUpper(name)] = struct{}{}
	}
	return &Evaluator{
		names:         names,
		minConfidence: conf.MinConfidence,
	}
}

// Evaluate marks OnWatchList on each label whose name matches the watch list
// case-insensitively with confidence at or above the watch-list threshold,
// and returns the matched labels in encounter order.
func (e *Evaluator) Evaluate(labels []dao.DetectedLabel) []dao.DetectedLabel {
	var matched []dao.DetectedLabel
	for i := range labels {
		labels[i].OnWatchList = false
		if _, ok := e.names[strings.ToUpper(labels[i].Name)]; !ok {
			continue
		}
		if labels[i].Confidence < e.minConfidence {
			continue
		}
		labels[i].OnWatchList = true
		matched = append(matched, labels[i])
	}
	return matched
}

// FormatAlert renders the single human-readable alert message for a set of
// matched labels, with the capture time localized to captureTime's location.
func FormatAlert(matched []dao.DetectedLabel, captureTime time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "On %s...\n", captureTime.Format("01/02/2006, 3:04 PM MST"))
	for _, label := range matched {
		fmt.Fprintf(&b, "- %q was detected with %.2f%% confidence.\n", label.Name, label.Confidence)
	}
	return b.String()
}
