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

package utils

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/postpulse/usage-insights-service/internal/system/authn"
	"github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

// HandleError writes a ClientError or ServerError as a JSON response.
func HandleError(w http.ResponseWriter, err error) {

	logger := log.GetLogger()
	w.Header().Set("Content-Type", "application/json")

	switch e := err.(type) {
	case *errors.ClientError:
		status := e.StatusCode
		if status == 0 {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(e.ErrorMessage)
	case *errors.ServerError:
		logger.Error("Internal server error", log.String("code", e.Code), log.Error(e.Err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(e.ErrorMessage)
	default:
		logger.Error("Unclassified error", log.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errors.ErrorMessage{
			Code:    "UIS-15000",
			Message: "Internal server error.",
		})
	}
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// AuthnAdmin performs authentication for admin-only operations on the given
// HTTP request.
func AuthnAdmin(r *http.Request) error {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized)
		return clientError
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if _, err := authn.ValidateAdminToken(token); err != nil {
		return err
	}
	return nil
}
