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

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postpulse/usage-insights-service/internal/system/errors"
)

func TestHandleListAuditEntriesRequiresAdminToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit/ab12cd34", nil)
	r.SetPathValue("subjectHash", "ab12cd34")
	w := httptest.NewRecorder()

	NewConsentHandler().HandleListAuditEntries(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), errors.UN_AUTHORIZED.Code)
}
