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

// Package provider provides the BenchmarkProvider for managing benchmark services.
package provider

import (
	"github.com/postpulse/usage-insights-service/internal/benchmarks/service"
)

// BenchmarkProviderInterface defines the interface for the benchmark provider.
type BenchmarkProviderInterface interface {
	GetBenchmarkService() service.BenchmarkServiceInterface
}

// BenchmarkProvider is the default implementation of the benchmark provider.
type BenchmarkProvider struct{}

// NewBenchmarkProvider creates a new instance of BenchmarkProvider.
func NewBenchmarkProvider() BenchmarkProviderInterface {

	return &BenchmarkProvider{}
}

// GetBenchmarkService returns the benchmark service instance.
func (bp *BenchmarkProvider) GetBenchmarkService() service.BenchmarkServiceInterface {

	return service.GetBenchmarkService()
}
