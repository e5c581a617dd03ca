/*
 * Copyright (c) 2026, PostPulse, Inc. (https://postpulse.io).
 *
 * PostPulse, Inc. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package model defines the per-subject benchmark structures. Profiles are
// ephemeral: built per request, never persisted.
package model

// Performance tiers. A zero community average makes a metric incomparable,
// not bad, hence the distinct unknown tier.
const (
	TierExcellent        = "excellent"
	TierAboveAverage     = "above_average"
	TierAverage          = "average"
	TierBelowAverage     = "below_average"
	TierNeedsImprovement = "needs_improvement"
	TierUnknown          = "unknown"
)

// SubjectProfile aggregates one subject's events over a trailing window.
type SubjectProfile struct {
	SubjectID          string             `json:"subject_id"`
	WindowStart        int64              `json:"window_start"`
	WindowEnd          int64              `json:"window_end"`
	EventCount         int                `json:"event_count"`
	SessionCount       int                `json:"session_count"`
	AverageEngagement  float64            `json:"average_engagement"`
	PlatformCounts     map[string]int     `json:"platform_counts"`
	PlatformEngagement map[string]float64 `json:"platform_engagement"`
	ToneCounts         map[string]int     `json:"tone_counts"`
	HashtagCounts      map[string]int     `json:"hashtag_counts"`
	FeatureCounts      map[string]int     `json:"feature_counts"`
	HourlyActivity     [24]int            `json:"hourly_activity"`
	ConsistencyScore   float64            `json:"consistency_score"`
	PlatformDiversity  int                `json:"platform_diversity"`
}

// BenchmarkResult compares one metric against the community average.
type BenchmarkResult struct {
	MetricName       string  `json:"metric_name"`
	SubjectScore     float64 `json:"subject_score"`
	CommunityAverage float64 `json:"community_average"`
	RelativeDeltaPct float64 `json:"relative_delta_pct"`
	PerformanceTier  string  `json:"performance_tier"`
	MetricScore      float64 `json:"metric_score"`
}

// BenchmarkReport is the full comparison for one subject. InsufficientData
// marks reports for subjects with no comparable metrics, so a zero overall
// score is never mistaken for poor performance.
type BenchmarkReport struct {
	SubjectID        string            `json:"subject_id"`
	Results          []BenchmarkResult `json:"results"`
	OverallScore     float64           `json:"overall_score"`
	PercentileRank   int               `json:"percentile_rank"`
	InsufficientData bool              `json:"insufficient_data,omitempty"`
}
