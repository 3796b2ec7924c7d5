// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package flasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgsBuilders(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			"read",
			ReadArgs("nvram", "/out/nvram.img", "/da.bin", ""),
			[]string{"upload", "nvram", "/out/nvram.img", "-d", "/da.bin"},
		},
		{
			"read with preloader",
			ReadArgs("nvram", "/out/nvram.img", "/da.bin", "/pl.bin"),
			[]string{"upload", "nvram", "/out/nvram.img", "-d", "/da.bin", "-p", "/pl.bin"},
		},
		{
			"write",
			WriteArgs("boot_a", "/boot.img", "/da.bin", ""),
			[]string{"download", "boot_a", "/boot.img", "-d", "/da.bin"},
		},
		{
			"erase",
			EraseArgs("cache", "/da.bin", ""),
			[]string{"erase", "cache", "-d", "/da.bin"},
		},
		{
			"format",
			FormatArgs("userdata", "/da.bin", "/pl.bin"),
			[]string{"format", "userdata", "-d", "/da.bin", "-p", "/pl.bin"},
		},
		{
			"partition table",
			PartitionTableArgs("/da.bin", ""),
			[]string{"pgpt", "-d", "/da.bin"},
		},
		{
			"read all with skips",
			ReadAllArgs("/backup", "/da.bin", "", []string{"userdata", "super"}),
			[]string{"read-all", "/backup", "--skip", "userdata", "--skip", "super", "-d", "/da.bin"},
		},
		{
			"reboot",
			RebootArgs("recovery", "/da.bin", ""),
			[]string{"reboot", "recovery", "-d", "/da.bin"},
		},
		{
			"shutdown",
			ShutdownArgs("/da.bin", ""),
			[]string{"shutdown", "-d", "/da.bin"},
		},
		{
			"seccfg",
			SeccfgArgs("unlock", "/da.bin", ""),
			[]string{"seccfg", "unlock", "-d", "/da.bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.args)
		})
	}
}
