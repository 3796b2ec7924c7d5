// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAffirmative(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{"  yes  ", true},
		{"n", false},
		{"no", false},
		{"", false},
		{"maybe", false},
	}

	for _, tc := range cases {
		t.Run(tc.answer, func(t *testing.T) {
			assert.Equal(t, tc.want, Affirmative(tc.answer))
		})
	}
}
