package services

import (
	"sort"
	"time"

	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

// CorrelationEngine reconstructs subagent lifecycle views by joining the
// runtime's append-only activity log against its task result cache. The two
// sources were never designed together: key spellings drifted across schema
// generations and either side may be missing records, so every join here is
// best-effort and a malformed record only ever costs that one record.
type CorrelationEngine struct {
	logger *logger.Logger
}

func NewCorrelationEngine(log *logger.Logger) *CorrelationEngine {
	return &CorrelationEngine{logger: log}
}

// activityKey derives the correlation key for an activity record. Rules are
// tried in order: metadata session label (both spellings), then the task id
// under its current and legacy key. The log mixes all shapes, so this is a
// rule chain rather than a schema-version switch.
func activityKey(r domain.ActivityRecord) string {
	if label := metadataString(r.Metadata, "sessionLabel"); label != "" {
		return label
	}
	if label := metadataString(r.Metadata, "session_label"); label != "" {
		return label
	}
	if r.TaskID != "" {
		return r.TaskID
	}
	return r.LegacyTaskID
}

func resultKey(r domain.ResultCacheRecord) string {
	for _, k := range []string{r.SessionLabel, r.LegacySessionLabel, r.TaskID, r.LegacyTaskID} {
		if k != "" {
			return k
		}
	}
	return ""
}

func metadataString(meta map[string]interface{}, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return s
}

func isSpawnCategory(category string) bool {
	return category == domain.CategorySubagentSpawn || category == domain.CategorySubagentSpawnLegacy
}

// parseInstant accepts the timestamp shapes the runtime has emitted over its
// lifetime: RFC3339 strings and epoch milliseconds. A nil value is treated
// as absent, anything else as malformed.
func parseInstant(v interface{}) (*time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case time.Time:
		return &t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed, true
			}
		}
		return nil, false
	case float64:
		parsed := time.UnixMilli(int64(t)).UTC()
		return &parsed, true
	case int64:
		parsed := time.UnixMilli(t).UTC()
		return &parsed, true
	default:
		return nil, false
	}
}

type groupedActivity struct {
	key     string
	records []parsedActivity
}

type parsedActivity struct {
	at       time.Time
	category string
	position int
}

// Correlate joins activity records and result-cache records into per-key
// lifecycle views. The output order is deterministic: keys appear in
// first-seen order of the activity log, followed by result-only keys in
// result order. Calling it twice on the same inputs yields identical output.
func (e *CorrelationEngine) Correlate(activity []domain.ActivityRecord, results []domain.ResultCacheRecord) []domain.SubagentView {
	groups := make(map[string]*groupedActivity)
	var order []string

	for i, record := range activity {
		key := activityKey(record)
		if key == "" {
			e.logger.Debugw("activity_record_without_key", "position", i, "category", record.Category)
			continue
		}
		at, ok := parseInstant(record.Timestamp)
		if !ok || at == nil {
			e.logger.Warnw("activity_record_malformed_timestamp", "position", i, "key", key)
			continue
		}
		group := groups[key]
		if group == nil {
			group = &groupedActivity{key: key}
			groups[key] = group
			order = append(order, key)
		}
		group.records = append(group.records, parsedActivity{at: *at, category: record.Category, position: i})
	}

	resultsByKey := make(map[string]domain.ResultCacheRecord)
	for i, record := range results {
		key := resultKey(record)
		if key == "" {
			e.logger.Warnw("result_record_without_key", "position", i, "status", record.Status)
			continue
		}
		if _, seen := resultsByKey[key]; seen {
			e.logger.Debugw("result_record_duplicate_key", "position", i, "key", key)
			continue
		}
		resultsByKey[key] = record
		if groups[key] == nil {
			order = append(order, key)
		}
	}

	views := make([]domain.SubagentView, 0, len(order))
	for _, key := range order {
		view := domain.SubagentView{ID: key}

		if group := groups[key]; group != nil {
			view.StartedAt = deriveStart(group.records)
		}

		hasResult := false
		if result, ok := resultsByKey[key]; ok {
			hasResult = true
			view.Status = resultStatus(result, e.logger)
			completedAt, ok := completedInstant(result)
			if !ok {
				e.logger.Warnw("result_record_malformed_completed_at", "key", key)
			} else {
				view.CompletedAt = completedAt
			}
		}

		if !hasResult {
			// Activity with no cached result: a derived start means the
			// subagent is underway, otherwise it is still waiting its turn.
			if view.StartedAt != nil {
				view.Status = domain.SubagentStatusRunning
			} else {
				view.Status = domain.SubagentStatusQueued
			}
		}

		// Duration only when both instants exist and the interval is not
		// negative. Never defaulted to zero.
		if view.StartedAt != nil && view.CompletedAt != nil && !view.CompletedAt.Before(*view.StartedAt) {
			ms := view.CompletedAt.Sub(*view.StartedAt).Milliseconds()
			view.DurationMs = &ms
		}

		views = append(views, view)
	}

	return views
}

// deriveStart finds the group's start instant: the earliest record carrying
// a spawn marker, or, failing that, the earliest record with no category at
// all. The second path exists because old runtime versions logged spawns
// without any marker; both generations appear in the same log, so both
// paths stay live. Ordering ties on equal timestamps break by log position.
func deriveStart(records []parsedActivity) *time.Time {
	sorted := make([]parsedActivity, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].at.Equal(sorted[j].at) {
			return sorted[i].position < sorted[j].position
		}
		return sorted[i].at.Before(sorted[j].at)
	})

	for _, r := range sorted {
		if isSpawnCategory(r.category) {
			at := r.at
			return &at
		}
	}
	for _, r := range sorted {
		if r.category == "" {
			at := r.at
			return &at
		}
	}
	return nil
}

// completedInstant resolves the completion instant across both key spellings.
// Like the key rules, spellings are tried in order until one parses: a
// malformed primary value falls through to a still-parseable legacy one.
// An absent instant in both spellings is not an error.
func completedInstant(r domain.ResultCacheRecord) (*time.Time, bool) {
	sawMalformed := false
	for _, v := range []interface{}{r.CompletedAt, r.LegacyCompletedAt} {
		if v == nil {
			continue
		}
		if at, ok := parseInstant(v); ok && at != nil {
			return at, true
		}
		sawMalformed = true
	}
	return nil, !sawMalformed
}

func resultStatus(r domain.ResultCacheRecord, log *logger.Logger) domain.SubagentStatus {
	switch domain.SubagentStatus(r.Status) {
	case domain.SubagentStatusQueued, domain.SubagentStatusRunning,
		domain.SubagentStatusCompleted, domain.SubagentStatusFailed:
		return domain.SubagentStatus(r.Status)
	}
	log.Warnw("result_record_unknown_status", "status", r.Status)
	return domain.SubagentStatusRunning
}

// ProjectSubagents partitions correlated views into the stable external
// contract. Running and queued sort most-recently-started first, completed
// (terminal states, failures included) most-recently-completed first; views
// without the sort instant keep their correlation order at the tail.
func ProjectSubagents(views []domain.SubagentView) *domain.SubagentStatusReport {
	report := &domain.SubagentStatusReport{
		Running:   []domain.SubagentView{},
		Queued:    []domain.SubagentView{},
		Completed: []domain.SubagentView{},
	}

	for _, view := range views {
		switch view.Status {
		case domain.SubagentStatusRunning:
			report.Running = append(report.Running, view)
		case domain.SubagentStatusQueued:
			report.Queued = append(report.Queued, view)
		default:
			report.Completed = append(report.Completed, view)
		}
	}

	byStartDesc := func(list []domain.SubagentView) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := list[i].StartedAt, list[j].StartedAt
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.After(*b)
		}
	}
	sort.SliceStable(report.Running, byStartDesc(report.Running))
	sort.SliceStable(report.Queued, byStartDesc(report.Queued))
	sort.SliceStable(report.Completed, func(i, j int) bool {
		a, b := report.Completed[i].CompletedAt, report.Completed[j].CompletedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	return report
}
