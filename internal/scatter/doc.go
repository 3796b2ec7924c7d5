// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scatter parses MTK scatter files in both their XML and YAML-text
// forms and matches scatter partitions to local image files.
//
// Newer scatter files carry one section per storage type; when a UFS
// section exists it wins over EMMC. Old-format files without storage_type
// sections list partitions at the top level.
package scatter
