// Package catalog loads the static troubleshooting knowledge base.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Record is one flattened (model, issue, steps) entry. Immutable after load.
type Record struct {
	Model  string            `json:"model"`
	Issue  string            `json:"issue"`
	Steps  []string          `json:"steps"`
	Images map[string]string `json:"images,omitempty"`
}

type rawIssue struct {
	Issue string   `json:"issue"`
	Steps []string `json:"steps"`
}

type rawModelEntry struct {
	Model                 string            `json:"model"`
	TroubleshootingIssues []rawIssue        `json:"troubleshooting_issues"`
	Images                map[string]string `json:"images"`
}

// Load reads the catalog JSON file and flattens it to one Record per issue.
// Entries with a missing model name or empty issue text are skipped; a model's
// general images map is attached to each of its issue records.
func Load(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var entries []rawModelEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
	}

	var records []Record
	for _, entry := range entries {
		model := strings.TrimSpace(entry.Model)
		if model == "" {
			continue
		}
		for _, issue := range entry.TroubleshootingIssues {
			text := strings.TrimSpace(issue.Issue)
			if text == "" {
				continue
			}
			records = append(records, Record{
				Model:  model,
				Issue:  text,
				Steps:  issue.Steps,
				Images: entry.Images,
			})
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("catalog: no indexable issues in %s", path)
	}
	return records, nil
}

// IssuesForModel returns the issue texts of every record for the model.
func IssuesForModel(records []Record, model string) []string {
	target := normalize(model)
	var issues []string
	for _, r := range records {
		if normalize(r.Model) == target {
			issues = append(issues, r.Issue)
		}
	}
	return issues
}

// ImagesForModel returns the images map of the first record for the model,
// or nil when the model is unknown or carries no images.
func ImagesForModel(records []Record, model string) map[string]string {
	target := normalize(model)
	for _, r := range records {
		if normalize(r.Model) == target && len(r.Images) > 0 {
			return r.Images
		}
	}
	return nil
}

// HasModel reports whether any record exists for the model.
func HasModel(records []Record, model string) bool {
	target := normalize(model)
	for _, r := range records {
		if normalize(r.Model) == target {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
