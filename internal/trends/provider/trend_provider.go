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

// Package provider provides the TrendProvider for managing trend services.
package provider

import (
	"github.com/postpulse/usage-insights-service/internal/trends/service"
)

// TrendProviderInterface defines the interface for the trend provider.
type TrendProviderInterface interface {
	GetTrendService() service.TrendServiceInterface
}

// TrendProvider is the default implementation of the trend provider.
type TrendProvider struct{}

// NewTrendProvider creates a new instance of TrendProvider.
func NewTrendProvider() TrendProviderInterface {

	return &TrendProvider{}
}

// GetTrendService returns the trend service instance.
func (tp *TrendProvider) GetTrendService() service.TrendServiceInterface {

	return service.GetTrendService()
}
