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

// Package model defines the derived community aggregates. Nothing in this
// package is persisted authoritatively; every value is recomputable from the
// event store.
package model

// Window is a half-open time range [Start, End) in unix seconds.
type Window struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// HashtagCount pairs a hashed hashtag with its usage count. Order matters:
// baselines carry these sorted by count, ties broken by earliest first-seen
// timestamp.
type HashtagCount struct {
	Hash  string `json:"hash"`
	Count int    `json:"count"`
}

// CommunityBaseline is the cached community aggregate for one window.
// Stale marks a baseline served from an expired cache entry after a failed
// recomputation.
type CommunityBaseline struct {
	WindowStart         int64              `json:"window_start"`
	WindowEnd           int64              `json:"window_end"`
	AverageEngagement   float64            `json:"average_engagement"`
	PlatformAverages    map[string]float64 `json:"platform_averages"`
	TopHashtags         []HashtagCount     `json:"top_hashtags"`
	AverageSessionCount float64            `json:"average_session_count"`
	SubjectCount        int                `json:"subject_count"`
	Stale               bool               `json:"stale,omitempty"`
}
