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

// Package model defines window-over-window trend results. Hashtag keys are
// always salted hashes; raw hashtag text never appears here.
package model

// Trend dimensions.
const (
	DimensionHashtag  = "hashtag"
	DimensionPlatform = "platform"
	DimensionTone     = "tone"
)

// Growth patterns for daily usage series.
const (
	PatternRising    = "rising"
	PatternDeclining = "declining"
	PatternStable    = "stable"
)

// Classification confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// TrendEntry is one key's window-over-window movement.
type TrendEntry struct {
	Dimension      string  `json:"dimension"`
	Key            string  `json:"key"`
	CurrentUsage   int     `json:"current_usage"`
	PreviousUsage  int     `json:"previous_usage"`
	GrowthRate     float64 `json:"growth_rate"`
	UniqueSubjects int     `json:"unique_subjects"`
	TrendScore     float64 `json:"trend_score"`
}

// GrowthPattern classifies a daily usage series by its least-squares slope.
type GrowthPattern struct {
	Pattern    string  `json:"pattern"`
	Slope      float64 `json:"slope"`
	Volatility float64 `json:"volatility"`
	Confidence string  `json:"confidence"`
}
