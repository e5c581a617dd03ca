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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSessionIDIsStable(t *testing.T) {
	signals := Signals{
		UserAgent: "PostStudio/4.2.1 (Macintosh)",
		IPAddress: "203.0.113.7",
		Nonce:     "aabbccddeeff00112233445566778899",
	}

	first, nonce, err := DeriveSessionID(signals, "install-salt")
	require.NoError(t, err)
	assert.Equal(t, signals.Nonce, nonce)

	second, _, err := DeriveSessionID(signals, "install-salt")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, SessionIDLength)
	assert.True(t, ValidSessionID(first))
}

func TestDeriveSessionIDGeneratesNonce(t *testing.T) {
	signals := Signals{UserAgent: "PostStudio/4.2.1", IPAddress: "203.0.113.7"}

	id1, nonce1, err := DeriveSessionID(signals, "install-salt")
	require.NoError(t, err)
	id2, nonce2, err := DeriveSessionID(signals, "install-salt")
	require.NoError(t, err)

	assert.NotEmpty(t, nonce1)
	assert.NotEqual(t, nonce1, nonce2)
	assert.NotEqual(t, id1, id2)
}

func TestDeriveSessionIDSaltChangesDigest(t *testing.T) {
	signals := Signals{
		UserAgent: "PostStudio/4.2.1",
		IPAddress: "203.0.113.7",
		Nonce:     "aabbccddeeff00112233445566778899",
	}

	a, _, err := DeriveSessionID(signals, "salt-a")
	require.NoError(t, err)
	b, _, err := DeriveSessionID(signals, "salt-b")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeriveSessionIDCoarsensUserAgent(t *testing.T) {
	base := Signals{IPAddress: "203.0.113.7", Nonce: "aabbccddeeff00112233445566778899"}

	v1 := base
	v1.UserAgent = "PostStudio/4.2.1 (Macintosh)"
	v2 := base
	v2.UserAgent = "PostStudio/4.2.9 (Windows)"

	a, _, err := DeriveSessionID(v1, "install-salt")
	require.NoError(t, err)
	b, _, err := DeriveSessionID(v2, "install-salt")
	require.NoError(t, err)

	// Patch-level UA changes must not rotate the identifier.
	assert.Equal(t, a, b)
}

func TestValidSessionID(t *testing.T) {
	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{name: "well formed", token: "0123456789abcdef0123456789abcdef", valid: true},
		{name: "too short", token: "0123456789abcdef", valid: false},
		{name: "too long", token: "0123456789abcdef0123456789abcdef00", valid: false},
		{name: "uppercase rejected", token: "0123456789ABCDEF0123456789ABCDEF", valid: false},
		{name: "non-hex rejected", token: "0123456789abcdef0123456789abcdeg", valid: false},
		{name: "empty", token: "", valid: false},
		{name: "injection attempt", token: "x' OR 1=1 --", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidSessionID(tt.token))
		})
	}
}

func TestHashTagRoundTrip(t *testing.T) {
	// Equal text under normalization must always hash identically.
	assert.Equal(t, HashTag("#Sunset", "s"), HashTag("sunset", "s"))
	assert.Equal(t, HashTag(" #SUNSET ", "s"), HashTag("#sunset", "s"))
	assert.Len(t, HashTag("#sunset", "s"), HashtagHashLength)
}

func TestHashTagDistinguishesTagsAndSalts(t *testing.T) {
	assert.NotEqual(t, HashTag("#sunset", "s"), HashTag("#sunrise", "s"))
	assert.NotEqual(t, HashTag("#sunset", "s1"), HashTag("#sunset", "s2"))
}

func TestHashSubjectIDNeverEchoesInput(t *testing.T) {
	hashed := HashSubjectID("0123456789abcdef0123456789abcdef", "install-salt")
	assert.Len(t, hashed, SessionIDLength)
	assert.NotEqual(t, "0123456789abcdef0123456789abcdef", hashed)
}
