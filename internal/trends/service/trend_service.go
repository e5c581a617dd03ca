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

// Package service computes window-over-window trends. The scoring is a fixed,
// bounded composite of volume, momentum, and breadth of adoption; the weights
// are design constants, not learned.
package service

import (
	"context"
	"math"
	"sort"

	analyticsmodel "github.com/postpulse/usage-insights-service/internal/analytics/model"
	eventmodel "github.com/postpulse/usage-insights-service/internal/events/model"
	eventstore "github.com/postpulse/usage-insights-service/internal/events/store"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	model "github.com/postpulse/usage-insights-service/internal/trends/model"
)

// Inclusion filter: a key appears in trend output only when it is growing
// fast or carries real volume.
const (
	minGrowthRate   = 20.0
	minCurrentUsage = 10
	newEntrantFloor = 5
)

// OLS slope thresholds for growth pattern classification.
const (
	risingSlope    = 1.0
	decliningSlope = -1.0
)

// DimensionUsage holds per-key usage counts and subject breadth for one
// window and one dimension.
type DimensionUsage struct {
	Counts   map[string]int
	Subjects map[string]int
}

// TrendServiceInterface defines trend computation over the event store.
type TrendServiceInterface interface {
	ComputeTrends(ctx context.Context, currentWindow, previousWindow analyticsmodel.Window,
		topN int) ([]model.TrendEntry, error)
}

// TrendService is the default implementation of the TrendServiceInterface.
type TrendService struct{}

// GetTrendService creates a new instance of TrendService.
func GetTrendService() TrendServiceInterface {

	return &TrendService{}
}

// ComputeTrends aggregates hashtag, platform, and tone usage for the two
// windows and scores each key's movement. Entries are grouped by dimension,
// each group ordered by trend score descending and cut to topN.
func (ts *TrendService) ComputeTrends(ctx context.Context, currentWindow,
	previousWindow analyticsmodel.Window, topN int) ([]model.TrendEntry, error) {

	currentEvents, err := eventstore.FindEventsInRange(currentWindow.Start, currentWindow.End)
	if err != nil {
		return nil, err
	}
	previousEvents, err := eventstore.FindEventsInRange(previousWindow.Start, previousWindow.End)
	if err != nil {
		return nil, err
	}

	entries := make([]model.TrendEntry, 0)
	for _, dimension := range []string{model.DimensionHashtag, model.DimensionPlatform, model.DimensionTone} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := CollectUsage(currentEvents, dimension)
		previous := CollectUsage(previousEvents, dimension)
		entries = append(entries, ScoreTrends(dimension, current, previous, topN)...)
	}
	return entries, nil
}

// CollectUsage counts per-key usage and distinct subjects for one dimension.
func CollectUsage(events []eventmodel.Event, dimension string) DimensionUsage {

	usage := DimensionUsage{
		Counts:   make(map[string]int),
		Subjects: make(map[string]int),
	}
	seen := make(map[string]map[string]bool)
	record := func(key, subject string) {
		if key == "" {
			return
		}
		usage.Counts[key]++
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		if !seen[key][subject] {
			seen[key][subject] = true
			usage.Subjects[key]++
		}
	}

	for _, event := range events {
		switch dimension {
		case model.DimensionHashtag:
			for _, hash := range eventmodel.PayloadHashtags(event.Payload) {
				record(hash, event.SubjectID)
			}
		case model.DimensionPlatform:
			record(event.Platform, event.SubjectID)
		case model.DimensionTone:
			if tone, ok := event.Payload[constants.FieldTone].(string); ok {
				record(tone, event.SubjectID)
			}
		}
	}
	return usage
}

// ScoreTrends computes growth rates and trend scores for every key in the
// current window. previous == 0 never divides; a new entrant at or above the
// floor counts as 100% growth.
func ScoreTrends(dimension string, current, previous DimensionUsage, topN int) []model.TrendEntry {

	entries := make([]model.TrendEntry, 0, len(current.Counts))
	for key, currentUsage := range current.Counts {
		previousUsage := previous.Counts[key]

		var growthRate float64
		switch {
		case previousUsage > 0:
			growthRate = float64(currentUsage-previousUsage) / float64(previousUsage) * 100
		case currentUsage >= newEntrantFloor:
			growthRate = 100
		default:
			growthRate = 0
		}

		if growthRate < minGrowthRate && currentUsage < minCurrentUsage {
			continue
		}

		subjects := current.Subjects[key]
		entries = append(entries, model.TrendEntry{
			Dimension:      dimension,
			Key:            key,
			CurrentUsage:   currentUsage,
			PreviousUsage:  previousUsage,
			GrowthRate:     growthRate,
			UniqueSubjects: subjects,
			TrendScore: math.Min(50, float64(currentUsage)*2) +
				math.Min(30, growthRate*0.3) +
				math.Min(20, float64(subjects)*2),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TrendScore != entries[j].TrendScore {
			return entries[i].TrendScore > entries[j].TrendScore
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// ClassifyGrowthPattern fits an ordinary least-squares line to a daily usage
// series and classifies it by slope. Volatility is the population standard
// deviation; confidence degrades to medium on noisy series.
func ClassifyGrowthPattern(daily []float64) model.GrowthPattern {

	if len(daily) == 0 {
		return model.GrowthPattern{Pattern: model.PatternStable, Confidence: model.ConfidenceMedium}
	}

	n := float64(len(daily))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range daily {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	var slope float64
	denominator := n*sumXX - sumX*sumX
	if denominator != 0 {
		slope = (n*sumXY - sumX*sumY) / denominator
	}

	mean := sumY / n
	var varianceSum float64
	for _, y := range daily {
		varianceSum += (y - mean) * (y - mean)
	}
	volatility := math.Sqrt(varianceSum / n)

	pattern := model.PatternStable
	if slope > risingSlope {
		pattern = model.PatternRising
	} else if slope < decliningSlope {
		pattern = model.PatternDeclining
	}

	confidence := model.ConfidenceMedium
	if volatility < mean*0.3 {
		confidence = model.ConfidenceHigh
	}

	return model.GrowthPattern{
		Pattern:    pattern,
		Slope:      slope,
		Volatility: volatility,
		Confidence: confidence,
	}
}
