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

package authn

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/postpulse/usage-insights-service/internal/system/config"
	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
	"github.com/postpulse/usage-insights-service/internal/system/log"
)

const defaultAudience = "usage-insights"

// ValidateAdminToken verifies an admin bearer token (HMAC-signed JWT) and
// returns its claims. Admin tokens guard the retention sweep trigger and the
// erasure primitive; ingestion itself is anonymous and unauthenticated.
func ValidateAdminToken(token string) (jwt.MapClaims, error) {

	logger := log.GetLogger()
	cfg := config.GetUISRuntime().Config

	if strings.Count(token, ".") != 2 {
		logger.Debug("Expecting a JWT token but received an opaque token.")
		return nil, unauthorizedError()
	}

	audience := cfg.Auth.AdminJWTAudience
	if audience == "" {
		audience = defaultAudience
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Auth.AdminJWTSecret), nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	if err != nil {
		errMsg := "Error occurred when validating the admin JWT token."
		logger.Debug(errMsg, log.Error(err))
		return nil, unauthorizedError()
	}
	if !parsed.Valid {
		logger.Debug("Admin JWT token is not valid.")
		return nil, unauthorizedError()
	}

	return claims, nil
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
