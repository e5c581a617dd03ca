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

package errors

const errorPrefix = "UIS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	ADD_EVENT = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while storing event.",
	}

	GET_EVENTS = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while fetching events.",
	}

	DELETE_EVENTS = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while deleting events.",
	}

	ADD_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while recording consent.",
	}

	FETCH_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching consent records.",
	}

	WITHDRAW_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while withdrawing consent.",
	}

	ERASURE_SCHEDULE = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while scheduling subject data erasure.",
	}

	AUDIT_TRAIL = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while writing to the compliance audit trail.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Advisory lock acquisition failed.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while releasing the lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error generating advisory lock key.",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Invalid response from advisory lock query.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while un-marshalling JSON.",
	}

	INVALID_TYPE = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Invalid type.",
	}

	SESSION_ID_DERIVATION = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while deriving anonymous session identifier.",
	}

	AGGREGATION_INCOMPLETE = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Baseline aggregation could not be completed.",
	}

	RETENTION_SWEEP = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while running the retention sweep.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Parsing token failed.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Forbidden",
		Description: "You do not have permission to access this resource.",
	}

	INVALID_EVENT = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Invalid event.",
	}

	INVALID_SESSION_TOKEN = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Invalid session token.",
		Description: "The supplied session token does not match the expected anonymous identifier shape.",
	}

	INVALID_CONSENT_CATEGORY = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Unknown consent category.",
	}

	SUBJECT_ID_REQUIRED = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Subject identifier is required.",
	}

	INVALID_WINDOW = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Invalid aggregation window.",
	}

	INSUFFICIENT_DATA = ErrorMessage{
		Code:        errorPrefix + "11009",
		Message:     "Insufficient data.",
		Description: "Not enough events in the requested window to produce a result.",
	}
)
