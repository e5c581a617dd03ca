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

package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	errors2 "github.com/postpulse/usage-insights-service/internal/system/errors"
)

// SessionIDLength is the hex length of a derived anonymous session identifier.
const SessionIDLength = 32

// HashtagHashLength is the hex length of a salted hashtag hash.
const HashtagHashLength = 16

var sessionIDPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Signals are the client-side inputs to session identifier derivation. None
// of them are ever persisted; only the derived hash leaves this package.
type Signals struct {
	UserAgent string
	IPAddress string
	// Nonce randomizes the first derivation so identical UA/IP pairs do not
	// collide. Generated here when empty; the caller persists it client-side
	// together with the derived identifier.
	Nonce string
}

// DeriveSessionID derives a stable, non-reversible anonymous session
// identifier from the given signals and the per-install secret salt.
func DeriveSessionID(signals Signals, salt string) (string, string, error) {

	nonce := signals.Nonce
	if nonce == "" {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			return "", "", errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.SESSION_ID_DERIVATION.Code,
				Message:     errors2.SESSION_ID_DERIVATION.Message,
				Description: "Failed to generate session nonce.",
			}, err)
		}
		nonce = hex.EncodeToString(raw)
	}

	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte("|"))
	h.Write([]byte(coarseUserAgent(signals.UserAgent)))
	h.Write([]byte("|"))
	h.Write([]byte(signals.IPAddress))
	h.Write([]byte("|"))
	h.Write([]byte(nonce))

	digest := hex.EncodeToString(h.Sum(nil))
	return digest[:SessionIDLength], nonce, nil
}

// ValidSessionID reports whether an externally supplied session token matches
// the expected identifier shape. Non-conforming tokens force re-derivation so
// forged identifiers cannot pollute aggregates.
func ValidSessionID(token string) bool {
	return sessionIDPattern.MatchString(token)
}

// HashTag produces the salted one-way hash of a hashtag. Input is normalized
// case-insensitively with the leading '#' stripped, so equal tags always map
// to equal hashes under the same salt.
func HashTag(tag, salt string) string {

	normalized := strings.ToLower(strings.TrimSpace(tag))
	normalized = strings.TrimPrefix(normalized, "#")

	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte("|tag|"))
	h.Write([]byte(normalized))

	return hex.EncodeToString(h.Sum(nil))[:HashtagHashLength]
}

// HashSubjectID hashes a subject identifier for audit log entries. Audit
// records must never carry a raw identifier.
func HashSubjectID(subjectID, salt string) string {

	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte("|audit|"))
	h.Write([]byte(subjectID))

	return hex.EncodeToString(h.Sum(nil))[:SessionIDLength]
}

// coarseUserAgent reduces a raw user-agent string to a coarse token before
// hashing. Only the product family ahead of the first slash is used, which
// keeps the derivation stable across patch releases.
func coarseUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if idx := strings.Index(ua, "/"); idx > 0 {
		return strings.ToLower(ua[:idx])
	}
	return strings.ToLower(ua)
}
