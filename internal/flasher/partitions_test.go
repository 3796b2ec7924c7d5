// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package flasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgptOutput = `
Antumbra ✦  Waiting for MTK device...
Antumbra ✦  Found MTK port: USB 0E8D:2000
Antumbra ✦  Partition Table:
Antumbra ✦  Name: preloader              Addr: 0x00000000        Size: 0x00400000 (4 MiB)
Antumbra ✦  Name: boot_para              Addr: 0x00008000        Size: 0x01A00000 (26 MiB)
Antumbra ✦  Name: boot_a                 Addr: 0x25100000        Size: 0x02000000 (32 MiB)
Antumbra ✦  Name: super                  Addr: 0x43800000        Size: 0x1FA120000 (7.9 GiB)
Antumbra ✦  Name: userdata               Addr: 0x250800000       Size: 0x39447FB000 (229.1 GiB)
`

func TestParsePartitionTable(t *testing.T) {
	partitions, err := ParsePartitionTable(pgptOutput)

	require.NoError(t, err)
	require.Len(t, partitions, 5)

	assert.Equal(t, "preloader", partitions[0].Name)
	assert.Equal(t, "0x00000000", partitions[0].Start)
	assert.Equal(t, "0x00400000", partitions[0].Size)
	assert.Equal(t, "4 MiB", partitions[0].DisplaySize)

	assert.Equal(t, "boot_para", partitions[1].Name)
	assert.Equal(t, "boot_a", partitions[2].Name)

	assert.Equal(t, "super", partitions[3].Name)
	assert.Equal(t, "0x1FA120000", partitions[3].Size)
	assert.Equal(t, "7.9 GiB", partitions[3].DisplaySize)

	assert.Equal(t, "userdata", partitions[4].Name)
}

func TestParsePartitionTable_NoPartitions(t *testing.T) {
	_, err := ParsePartitionTable("Antumbra ✦  Waiting for MTK device...\n")

	assert.ErrorIs(t, err, ErrNoPartitions)
}

func TestParsePartitionTable_MalformedRowsSkipped(t *testing.T) {
	output := `
Antumbra ✦  Name: preloader   Addr: 0x00000000   Size: 0x00400000 (4 MiB)
Antumbra ✦  Name: broken_row_without_addr
`

	partitions, err := ParsePartitionTable(output)

	require.NoError(t, err)
	assert.Len(t, partitions, 1)
}
