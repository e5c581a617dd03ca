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

package constants

const ApiBasePath = "/api/v1"

// Table names for the two durable stores. Everything else is recomputed.
const (
	EventTable   = "usage_events"
	ConsentTable = "consent_records"
	ErasureTable = "erasure_schedule"
)

// Consent categories. Absence of a record for a category means not granted.
const (
	CategoryBasicAnalytics          = "basic_analytics"
	CategoryHashtagTrends           = "hashtag_trends"
	CategoryPerformanceBenchmarking = "performance_benchmarking"
	CategoryProductImprovement      = "product_improvement"
)

// AllowedConsentCategories defines the closed set of consent categories.
// Adding a category is a compile-time change, not a configuration change.
var AllowedConsentCategories = map[string]bool{
	CategoryBasicAnalytics:          true,
	CategoryHashtagTrends:           true,
	CategoryPerformanceBenchmarking: true,
	CategoryProductImprovement:      true,
}

// Collection purposes. Each purpose binds a consent category and a retention
// window to an allow-list of payload fields.
const (
	PurposeUsageAnalytics          = "usage_analytics"
	PurposeHashtagTrendAnalysis    = "hashtag_trend_analysis"
	PurposePerformanceBenchmarking = "performance_benchmarking"
	PurposeFeatureImprovement      = "feature_improvement"
)

// Payload field names accepted by the minimizer.
const (
	FieldPlatform        = "platform"
	FieldTone            = "tone"
	FieldHashtags        = "hashtags"
	FieldHashtagCount    = "hashtag_count"
	FieldContentLength   = "content_length"
	FieldEngagementScore = "engagement_score"
	FieldPostingHour     = "posting_hour"
	FieldFeature         = "feature"
	FieldDurationMs      = "duration_ms"
	FieldEventType       = "event_type"
	FieldTimestamp       = "timestamp"
)

// PurposePolicy is the static policy attached to a collection purpose.
type PurposePolicy struct {
	RequiredCategory string
	RetentionDays    int
	AllowedFields    map[string]bool
	ExcludedFields   map[string]bool
}

// PurposePolicies maps every known purpose to its policy. An unknown purpose
// degrades to DefaultAllowedFields; it never widens.
var PurposePolicies = map[string]PurposePolicy{
	PurposeUsageAnalytics: {
		RequiredCategory: CategoryBasicAnalytics,
		RetentionDays:    90,
		AllowedFields: map[string]bool{
			FieldPlatform:      true,
			FieldTone:          true,
			FieldFeature:       true,
			FieldContentLength: true,
			FieldPostingHour:   true,
		},
		ExcludedFields: map[string]bool{
			FieldHashtags: true,
		},
	},
	PurposeHashtagTrendAnalysis: {
		RequiredCategory: CategoryHashtagTrends,
		RetentionDays:    180,
		AllowedFields: map[string]bool{
			FieldPlatform:     true,
			FieldHashtags:     true,
			FieldHashtagCount: true,
		},
		ExcludedFields: map[string]bool{
			FieldEngagementScore: true,
		},
	},
	PurposePerformanceBenchmarking: {
		RequiredCategory: CategoryPerformanceBenchmarking,
		RetentionDays:    365,
		AllowedFields: map[string]bool{
			FieldPlatform:        true,
			FieldTone:            true,
			FieldEngagementScore: true,
			FieldContentLength:   true,
			FieldPostingHour:     true,
		},
		ExcludedFields: map[string]bool{
			FieldHashtags: true,
		},
	},
	PurposeFeatureImprovement: {
		RequiredCategory: CategoryProductImprovement,
		RetentionDays:    90,
		AllowedFields: map[string]bool{
			FieldPlatform:   true,
			FieldFeature:    true,
			FieldDurationMs: true,
		},
		ExcludedFields: map[string]bool{
			FieldHashtags:        true,
			FieldEngagementScore: true,
		},
	},
}

// DefaultAllowedFields is the strictest fallback allow-list, applied when a
// purpose has no registered policy.
var DefaultAllowedFields = map[string]bool{
	FieldTimestamp: true,
	FieldEventType: true,
	FieldPlatform:  true,
}

// DefaultRetentionDays applies to events accepted under the fallback policy.
const DefaultRetentionDays = 30

// AllowedEventTypes enumerates the typed event schemas accepted at ingestion.
var AllowedEventTypes = map[string]bool{
	"post_created":    true,
	"post_published":  true,
	"hashtag_applied": true,
	"feature_used":    true,
	"session_started": true,
}

// AllowedPlatforms enumerates the publishing platforms the tools post to.
var AllowedPlatforms = map[string]bool{
	"instagram": true,
	"facebook":  true,
	"twitter":   true,
	"linkedin":  true,
	"tiktok":    true,
	"pinterest": true,
	"youtube":   true,
}

// AllowedTones enumerates the content tones the tools offer.
var AllowedTones = map[string]bool{
	"professional":  true,
	"casual":        true,
	"humorous":      true,
	"inspirational": true,
	"informative":   true,
	"promotional":   true,
}

// Retention sweep advisory lock key. The sweep must never run concurrently
// with itself.
const RetentionSweepLockKey = "uis:retention_sweep"
