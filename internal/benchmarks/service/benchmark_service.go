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

// Package service builds per-subject profiles and compares them against the
// community baseline. Tier thresholds and the percentile step function are
// deliberately coarse: the community sample is small and false precision
// would mislead.
package service

import (
	"context"
	"sort"
	"time"

	analyticsmodel "github.com/postpulse/usage-insights-service/internal/analytics/model"
	analyticsprovider "github.com/postpulse/usage-insights-service/internal/analytics/provider"
	model "github.com/postpulse/usage-insights-service/internal/benchmarks/model"
	eventmodel "github.com/postpulse/usage-insights-service/internal/events/model"
	eventstore "github.com/postpulse/usage-insights-service/internal/events/store"
	"github.com/postpulse/usage-insights-service/internal/system/constants"
	"github.com/postpulse/usage-insights-service/internal/system/utils"
)

// Metric names compared against the baseline.
const (
	MetricEngagement   = "engagement"
	MetricSessionCount = "session_count"
)

// Tier scores assigned per metric before averaging into the overall score.
var tierScores = map[string]float64{
	model.TierExcellent:        90,
	model.TierAboveAverage:     75,
	model.TierAverage:          60,
	model.TierBelowAverage:     45,
	model.TierNeedsImprovement: 30,
	model.TierUnknown:          0,
}

// BenchmarkServiceInterface defines subject benchmarking against the
// community baseline.
type BenchmarkServiceInterface interface {
	GetBenchmarks(ctx context.Context, subjectID string, windowDays int) (*model.BenchmarkReport, error)
	BuildSubjectProfile(subjectID string, window analyticsmodel.Window) (*model.SubjectProfile, error)
}

// BenchmarkService is the default implementation of the BenchmarkServiceInterface.
type BenchmarkService struct{}

// GetBenchmarkService creates a new instance of BenchmarkService.
func GetBenchmarkService() BenchmarkServiceInterface {

	return &BenchmarkService{}
}

// GetBenchmarks builds the subject profile for the trailing window and
// compares it against the community baseline for the same window.
func (bs *BenchmarkService) GetBenchmarks(ctx context.Context, subjectID string,
	windowDays int) (*model.BenchmarkReport, error) {

	end := time.Now().Unix()
	window := analyticsmodel.Window{Start: end - int64(windowDays)*86400, End: end}

	profile, err := bs.BuildSubjectProfile(subjectID, window)
	if err != nil {
		return nil, err
	}
	baseline, err := analyticsprovider.NewAnalyticsProvider().GetAggregatorService().
		GetBaseline(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	return Benchmark(profile, baseline), nil
}

// BuildSubjectProfile fetches the subject's events and aggregates the ones
// inside the window.
func (bs *BenchmarkService) BuildSubjectProfile(subjectID string,
	window analyticsmodel.Window) (*model.SubjectProfile, error) {

	events, err := eventstore.FindEventsBySubject(subjectID)
	if err != nil {
		return nil, err
	}
	return BuildProfile(subjectID, window, events), nil
}

// BuildProfile is the pure profile aggregation core. Events outside the
// window are ignored.
func BuildProfile(subjectID string, window analyticsmodel.Window,
	events []eventmodel.Event) *model.SubjectProfile {

	profile := &model.SubjectProfile{
		SubjectID:          subjectID,
		WindowStart:        window.Start,
		WindowEnd:          window.End,
		PlatformCounts:     make(map[string]int),
		PlatformEngagement: make(map[string]float64),
		ToneCounts:         make(map[string]int),
		HashtagCounts:      make(map[string]int),
		FeatureCounts:      make(map[string]int),
	}

	sessions := make(map[string]bool)
	activeDays := make(map[int64]bool)
	platformEngagementSums := make(map[string]float64)
	platformEngagementCounts := make(map[string]int)
	var engagementSum float64
	engagementCount := 0

	for _, event := range events {
		if event.Timestamp < window.Start || event.Timestamp >= window.End {
			continue
		}
		profile.EventCount++
		sessions[event.SessionHash] = true
		activeDays[event.Timestamp/86400] = true
		profile.HourlyActivity[time.Unix(event.Timestamp, 0).UTC().Hour()]++

		if event.Platform != "" {
			profile.PlatformCounts[event.Platform]++
		}
		if tone, ok := event.Payload[constants.FieldTone].(string); ok {
			profile.ToneCounts[tone]++
		}
		if feature, ok := event.Payload[constants.FieldFeature].(string); ok {
			profile.FeatureCounts[feature]++
		}
		for _, hash := range eventmodel.PayloadHashtags(event.Payload) {
			profile.HashtagCounts[hash]++
		}
		if raw, present := event.Payload[constants.FieldEngagementScore]; present {
			if score, err := utils.ToFloat(raw); err == nil {
				engagementSum += score
				engagementCount++
				if event.Platform != "" {
					platformEngagementSums[event.Platform] += score
					platformEngagementCounts[event.Platform]++
				}
			}
		}
	}

	for platform, sum := range platformEngagementSums {
		profile.PlatformEngagement[platform] = sum / float64(platformEngagementCounts[platform])
	}

	profile.SessionCount = len(sessions)
	profile.PlatformDiversity = len(profile.PlatformCounts)
	if engagementCount > 0 {
		profile.AverageEngagement = engagementSum / float64(engagementCount)
	}
	windowDays := (window.End - window.Start) / 86400
	if windowDays > 0 {
		profile.ConsistencyScore = float64(len(activeDays)) / float64(windowDays)
		if profile.ConsistencyScore > 1 {
			profile.ConsistencyScore = 1
		}
	}
	return profile
}

// Benchmark compares the profile against the baseline metric by metric.
// A subject with no comparable metrics gets overall 0 and the insufficient
// data flag, never an error.
func Benchmark(profile *model.SubjectProfile, baseline *analyticsmodel.CommunityBaseline) *model.BenchmarkReport {

	results := []model.BenchmarkResult{
		classifyMetric(MetricEngagement, profile.AverageEngagement, baseline.AverageEngagement),
		classifyMetric(MetricSessionCount, float64(profile.SessionCount), baseline.AverageSessionCount),
	}
	platforms := make([]string, 0, len(profile.PlatformEngagement))
	for platform := range profile.PlatformEngagement {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		if communityAverage, tracked := baseline.PlatformAverages[platform]; tracked {
			results = append(results,
				classifyMetric("platform_"+platform, profile.PlatformEngagement[platform], communityAverage))
		}
	}

	report := &model.BenchmarkReport{
		SubjectID: profile.SubjectID,
		Results:   results,
	}

	var scoreSum float64
	scored := 0
	for _, result := range results {
		if result.MetricScore > 0 {
			scoreSum += result.MetricScore
			scored++
		}
	}
	if scored == 0 {
		report.InsufficientData = true
		report.PercentileRank = percentileRank(0)
		return report
	}
	report.OverallScore = scoreSum / float64(scored)
	report.PercentileRank = percentileRank(report.OverallScore)
	return report
}

// classifyMetric applies the fixed relative-delta tier thresholds. Subject
// score zero means the metric was not computable for this subject.
func classifyMetric(name string, subjectScore, communityAverage float64) model.BenchmarkResult {

	result := model.BenchmarkResult{
		MetricName:       name,
		SubjectScore:     subjectScore,
		CommunityAverage: communityAverage,
		PerformanceTier:  model.TierUnknown,
	}
	if communityAverage == 0 || subjectScore == 0 {
		return result
	}

	delta := (subjectScore - communityAverage) / communityAverage * 100
	result.RelativeDeltaPct = delta
	switch {
	case delta >= 20:
		result.PerformanceTier = model.TierExcellent
	case delta >= 10:
		result.PerformanceTier = model.TierAboveAverage
	case delta > -10:
		result.PerformanceTier = model.TierAverage
	case delta > -20:
		result.PerformanceTier = model.TierBelowAverage
	default:
		result.PerformanceTier = model.TierNeedsImprovement
	}
	result.MetricScore = tierScores[result.PerformanceTier]
	return result
}

// percentileRank maps the overall score to a coarse percentile step.
func percentileRank(overallScore float64) int {

	switch {
	case overallScore >= 80:
		return 90
	case overallScore >= 70:
		return 75
	case overallScore >= 60:
		return 60
	case overallScore >= 50:
		return 50
	case overallScore >= 40:
		return 35
	case overallScore >= 30:
		return 25
	default:
		return 10
	}
}
