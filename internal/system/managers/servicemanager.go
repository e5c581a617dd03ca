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

package managers

import (
	"net/http"

	analyticshandler "github.com/postpulse/usage-insights-service/internal/analytics/handler"
	benchmarkhandler "github.com/postpulse/usage-insights-service/internal/benchmarks/handler"
	consenthandler "github.com/postpulse/usage-insights-service/internal/consent/handler"
	eventhandler "github.com/postpulse/usage-insights-service/internal/events/handler"
	healthhandler "github.com/postpulse/usage-insights-service/internal/health_check/handler"
	retentionhandler "github.com/postpulse/usage-insights-service/internal/retention/handler"
	trendhandler "github.com/postpulse/usage-insights-service/internal/trends/handler"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices mounts every HTTP endpoint under the API base path.
func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	eventHandler := eventhandler.NewEventHandler()
	consentHandler := consenthandler.NewConsentHandler()
	analyticsHandler := analyticshandler.NewAnalyticsHandler()
	trendHandler := trendhandler.NewTrendHandler()
	benchmarkHandler := benchmarkhandler.NewBenchmarkHandler()
	retentionHandler := retentionhandler.NewRetentionHandler()
	healthHandler := healthhandler.NewHealthHandler()

	sm.mux.HandleFunc("POST "+apiBasePath+"/events", eventHandler.HandleIngestEvent)

	sm.mux.HandleFunc("GET "+apiBasePath+"/consents/{subjectId}", consentHandler.HandleGetConsentState)
	sm.mux.HandleFunc("PUT "+apiBasePath+"/consents/{subjectId}/{category}", consentHandler.HandleSetConsent)
	sm.mux.HandleFunc("DELETE "+apiBasePath+"/consents/{subjectId}", consentHandler.HandleWithdrawAll)

	sm.mux.HandleFunc("GET "+apiBasePath+"/insights/baseline", analyticsHandler.HandleGetBaseline)
	sm.mux.HandleFunc("GET "+apiBasePath+"/insights/trends", trendHandler.HandleGetTrends)
	sm.mux.HandleFunc("GET "+apiBasePath+"/insights/benchmarks/{subjectId}", benchmarkHandler.HandleGetBenchmarks)

	sm.mux.HandleFunc("POST "+apiBasePath+"/admin/retention-sweep", retentionHandler.HandleRunSweep)
	sm.mux.HandleFunc("DELETE "+apiBasePath+"/admin/subjects/{subjectId}", retentionHandler.HandleEraseSubject)
	sm.mux.HandleFunc("GET "+apiBasePath+"/admin/audit/{subjectHash}", consentHandler.HandleListAuditEntries)

	sm.mux.HandleFunc("GET "+apiBasePath+"/health", healthHandler.HandleHealth)
	sm.mux.HandleFunc("GET "+apiBasePath+"/ready", healthHandler.HandleReadiness)

	return nil
}
