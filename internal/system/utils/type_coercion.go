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
	"fmt"
	"strconv"

	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
)

// ToFloat converts various scalar types to float64. JSON decoding hands
// numbers over as float64, but callers may also pass native ints.
func ToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		serverError := errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.INVALID_TYPE.Code,
			Message:     errors2.INVALID_TYPE.Message,
			Description: fmt.Sprintf("Invalid type for conversion to float: %T", v),
		}, nil)
		return 0, serverError
	}
}
