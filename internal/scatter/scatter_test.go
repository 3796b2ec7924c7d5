// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scatter

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xmlScatterUFS = `<?xml version="1.0" encoding="utf-8"?>
<flash_layout>
  <general>
    <platform>MT6789</platform>
    <project>corvus</project>
  </general>
  <storage_type name="EMMC">
    <partition_index name="SYS0">
      <partition_name>emmc_preloader</partition_name>
      <file_name>preloader_emmc.bin</file_name>
      <is_download>true</is_download>
    </partition_index>
  </storage_type>
  <storage_type name="UFS">
    <partition_index name="SYS0">
      <partition_name>preloader</partition_name>
      <file_name>preloader.bin</file_name>
      <is_download>true</is_download>
      <type>SV5_BL_BIN</type>
      <linear_start_addr>0x0</linear_start_addr>
      <physical_start_addr>0x0</physical_start_addr>
      <partition_size>0x40000</partition_size>
      <region>UFS_LUA0</region>
      <storage>HW_STORAGE_UFS</storage>
      <operation_type>BOOTLOADERS</operation_type>
    </partition_index>
    <partition_index name="SYS1">
      <partition_name>boot_a</partition_name>
      <file_name>NONE</file_name>
      <is_download>false</is_download>
    </partition_index>
  </storage_type>
</flash_layout>
`

const xmlScatterOld = `<?xml version="1.0" encoding="utf-8"?>
<flash_layout>
  <general>
    <platform>MT6580</platform>
    <project>legacy</project>
    <storage>EMMC</storage>
  </general>
  <partition_index name="SYS0">
    <partition_name>preloader</partition_name>
    <file_name>preloader.bin</file_name>
    <is_download>true</is_download>
  </partition_index>
  <partition_index name="SYS1">
    <partition_name>recovery</partition_name>
    <file_name>recovery.img</file_name>
    <is_download>true</is_download>
  </partition_index>
</flash_layout>
`

const yamlScatterArray = `- general: MTK_PLATFORM_CFG
  info:
    - config_version: V1.1.2
      platform: MT6789
      project: corvus
- storage_type: EMMC
  description:
    - partition_index: SYS0
      partition_name: emmc_preloader
      file_name: preloader_emmc.bin
      is_download: true
- storage_type: UFS
  description:
    - general: storage layout
    - partition_index: SYS0
      partition_name: preloader
      file_name: preloader.bin
      is_download: true
      type: SV5_BL_BIN
      linear_start_addr: "0x0"
      physical_start_addr: "0x0"
      partition_size: "0x40000"
      region: UFS_LUA0
      storage: HW_STORAGE_UFS
      operation_type: BOOTLOADERS
    - partition_index: SYS1
      partition_name: boot_a
      file_name: NONE
      is_download: false
`

const yamlScatterMultiDoc = `general: MTK_PLATFORM_CFG
info:
  - config_version: V1.0.0
    platform: MT6580
    project: legacy
---
storage_type: EMMC
description:
  - partition_index: SYS0
    partition_name: preloader
    file_name: preloader.bin
    is_download: true
`

func writeScatter(t *testing.T, content string) (afero.Fs, string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rom/scatter.txt", []byte(content), 0o644))

	return fs, "/rom/scatter.txt"
}

func TestParse_XMLPrefersUFS(t *testing.T) {
	fs, path := writeScatter(t, xmlScatterUFS)

	f, err := Parse(fs, path)

	require.NoError(t, err)
	assert.Equal(t, "MT6789", f.Platform)
	assert.Equal(t, "corvus", f.Project)
	assert.Equal(t, "UFS", f.StorageType)
	assert.Equal(t, path, f.Path)

	require.Len(t, f.Partitions, 2, "only the UFS section's partitions are read")

	p := f.Partitions[0]
	assert.Equal(t, "SYS0", p.Index)
	assert.Equal(t, "preloader", p.Name)
	assert.Equal(t, "preloader.bin", p.FileName)
	assert.True(t, p.IsDownload)
	assert.Equal(t, "SV5_BL_BIN", p.Type)
	assert.Equal(t, "0x40000", p.Size)
	assert.Equal(t, "UFS_LUA0", p.Region)
	assert.Equal(t, "HW_STORAGE_UFS", p.Storage)
	assert.Equal(t, "BOOTLOADERS", p.OperationType)

	assert.Empty(t, f.Partitions[1].FileName, "NONE file names are absent")
	assert.False(t, f.Partitions[1].IsDownload)
}

func TestParse_XMLOldFormat(t *testing.T) {
	fs, path := writeScatter(t, xmlScatterOld)

	f, err := Parse(fs, path)

	require.NoError(t, err)
	assert.Equal(t, "MT6580", f.Platform)
	assert.Equal(t, "EMMC", f.StorageType, "old format takes storage from the general section")

	require.Len(t, f.Partitions, 2)
	assert.Equal(t, "preloader", f.Partitions[0].Name)
	assert.Equal(t, "recovery", f.Partitions[1].Name)
}

func TestParse_YAMLArrayPrefersUFS(t *testing.T) {
	fs, path := writeScatter(t, yamlScatterArray)

	f, err := Parse(fs, path)

	require.NoError(t, err)
	assert.Equal(t, "MT6789", f.Platform)
	assert.Equal(t, "corvus", f.Project)
	assert.Equal(t, "UFS", f.StorageType)

	require.Len(t, f.Partitions, 2)
	assert.Equal(t, "preloader", f.Partitions[0].Name)
	assert.Equal(t, "0x40000", f.Partitions[0].Size)
	assert.True(t, f.Partitions[0].IsDownload)
	assert.Empty(t, f.Partitions[1].FileName)
}

func TestParse_YAMLMultiDocument(t *testing.T) {
	fs, path := writeScatter(t, yamlScatterMultiDoc)

	f, err := Parse(fs, path)

	require.NoError(t, err)
	assert.Equal(t, "MT6580", f.Platform)
	assert.Equal(t, "legacy", f.Project)
	assert.Equal(t, "EMMC", f.StorageType)

	require.Len(t, f.Partitions, 1)
	assert.Equal(t, "preloader", f.Partitions[0].Name)
}

func TestParse_MissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Parse(fs, "/missing.txt")

	assert.ErrorIs(t, err, ErrReadScatter)
}

func TestParse_EmptyYAML(t *testing.T) {
	fs, path := writeScatter(t, "\n")

	_, err := Parse(fs, path)

	assert.ErrorIs(t, err, ErrEmptyScatter)
}

func TestDetectImages(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rom/scatter.txt", []byte(""), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/rom/preloader.bin", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/rom/BOOT_A.img", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/rom/images/vendor.img", []byte("x"), 0o644))

	partitions := []Partition{
		{Name: "preloader", FileName: "preloader.bin", IsDownload: true},
		{Name: "boot_a", IsDownload: true},
		{Name: "vendor", IsDownload: true},
		{Name: "userdata", IsDownload: true},
		{Name: "frp", FileName: "frp.bin", IsDownload: false},
	}

	images := DetectImages(fs, "/rom/scatter.txt", partitions)

	assert.Equal(t, map[string]string{
		"preloader": "/rom/preloader.bin",
		"boot_a":    "/rom/BOOT_A.img",
		"vendor":    "/rom/images/vendor.img",
	}, images)
}

func TestDetectImages_FileNamePriority(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rom/scatter.txt", []byte(""), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/rom/boot-custom.img", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/rom/boot_a.img", []byte("x"), 0o644))

	images := DetectImages(fs, "/rom/scatter.txt", []Partition{
		{Name: "boot_a", FileName: "boot-custom.img", IsDownload: true},
	})

	assert.Equal(t, "/rom/boot-custom.img", images["boot_a"],
		"the scatter file_name wins over <name>.img")
}
