package reconcile

import (
	"fmt"
	"sort"

	"stockview/internal/core/id"
)

// IssueKind classifies a data quality finding.
type IssueKind string

const (
	IssueNegativeAvailable     IssueKind = "negative_available"
	IssueDanglingItemReference IssueKind = "dangling_item_reference"
	IssueOrphanLine            IssueKind = "orphan_line"
	IssueMissingCategory       IssueKind = "missing_category"
	IssueQuantityOverflow      IssueKind = "quantity_overflow"
)

// Issue is an inconsistency found during a run. Issues never abort a run;
// they affect at most the item they name.
type Issue struct {
	Kind     IssueKind      `json:"kind"`
	ItemID   *id.ID         `json:"itemId,omitempty"`
	RecordID *id.ID         `json:"recordId,omitempty"`
	Message  string         `json:"message"`
	Detail   map[string]any `json:"detail,omitempty"`
}

func (i Issue) key() string {
	var item, record string
	if i.ItemID != nil {
		item = i.ItemID.String()
	}
	if i.RecordID != nil {
		record = i.RecordID.String()
	}
	return string(i.Kind) + "|" + item + "|" + record
}

func orphanLine(lineID, parentID id.ID, parent string) Issue {
	line := lineID
	return Issue{
		Kind:     IssueOrphanLine,
		RecordID: &line,
		Message:  fmt.Sprintf("line references missing %s", parent),
		Detail:   map[string]any{"parentId": parentID.String()},
	}
}

func danglingItem(itemID, recordID id.ID, source string) Issue {
	it, rec := itemID, recordID
	return Issue{
		Kind:     IssueDanglingItemReference,
		ItemID:   &it,
		RecordID: &rec,
		Message:  fmt.Sprintf("%s references unknown item", source),
	}
}

// normalizeIssues drops duplicates and orders issues by kind, item and record.
func normalizeIssues(issues []Issue) []Issue {
	seen := make(map[string]struct{}, len(issues))
	out := make([]Issue, 0, len(issues))
	for _, is := range issues {
		k := is.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, is)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].key() < out[b].key()
	})
	return out
}

func quantityOverflow(itemID id.ID, code, total string) Issue {
	it := itemID
	return Issue{
		Kind:    IssueQuantityOverflow,
		ItemID:  &it,
		Message: fmt.Sprintf("%s of %s exceeds the quantity range", total, code),
		Detail:  map[string]any{"total": total},
	}
}
