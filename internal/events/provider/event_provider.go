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

// Package provider provides the EventProvider for managing event services.
package provider

import (
	"github.com/postpulse/usage-insights-service/internal/events/service"
)

// EventProviderInterface defines the interface for the event provider.
type EventProviderInterface interface {
	GetIngestionService() service.IngestionServiceInterface
}

// EventProvider is the default implementation of the event provider.
type EventProvider struct{}

// NewEventProvider creates a new instance of EventProvider.
func NewEventProvider() EventProviderInterface {

	return &EventProvider{}
}

// GetIngestionService returns the ingestion service instance.
func (ep *EventProvider) GetIngestionService() service.IngestionServiceInterface {

	return service.GetIngestionService()
}
