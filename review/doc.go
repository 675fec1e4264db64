// Package review implements the content-review workflow: a heuristic
// pattern scan and a model analysis pass whose findings are deduplicated
// and escalated into a single severity-rated report. When the model path
// fails the review degrades to heuristics instead of failing.
package review
